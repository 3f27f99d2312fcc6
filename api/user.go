package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"masha/database"
	"masha/models"
	"masha/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	personalNumberPattern = regexp.MustCompile(`^\d{7}$`)
	phoneNumberPattern    = regexp.MustCompile(`^05\d{8}$`)
)

// UserHandler implements the /users endpoints.
type UserHandler struct {
	email *service.EmailService
}

func NewUserHandler(email *service.EmailService) *UserHandler {
	return &UserHandler{email: email}
}

// List returns all non-deleted users with their permission name.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := database.DB.
		Preload("Permission", selectPermissionRef).
		Where("is_deleted = ?", false).
		Find(&users).Error; err != nil {
		log.Printf("users: list: %v", err)
		InternalError(c)
		return
	}
	Data(c, users)
}

// Search looks a user up by a full personal number (prefix letter plus
// seven digits) and falls back to matching each word of the search
// string against user names.
func (h *UserHandler) Search(c *gin.Context) {
	searchString := strings.TrimSpace(c.Param("search_string"))
	if searchString == "" {
		BadRequest(c, "a search string is required")
		return
	}

	if len(searchString) == 8 {
		digits := searchString[1:]
		var user models.User
		err := database.DB.
			Preload("Permission", selectPermissionRef).
			Where("personal_number LIKE ? AND is_deleted = ?", "%"+escapeLikeValue(digits), false).
			First(&user).Error
		if err == nil {
			Data(c, user)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("users: search: %v", err)
			InternalError(c)
			return
		}
	}

	query := database.DB.
		Preload("Permission", selectPermissionRef).
		Where("is_deleted = ?", false)
	nameMatch := database.DB
	for _, name := range strings.Fields(searchString) {
		nameMatch = nameMatch.Or("name LIKE ?", "%"+escapeLikeValue(name)+"%")
	}
	var users []models.User
	if err := query.Where(nameMatch).Find(&users).Error; err != nil {
		log.Printf("users: search: %v", err)
		InternalError(c)
		return
	}
	Data(c, users)
}

type UserCreateRequest struct {
	Name           string `json:"name" binding:"required"`
	PersonalNumber string `json:"personal_number" binding:"required"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	EmployeeType   int    `json:"employee_type" binding:"required,min=1,max=4"`
	PermissionCode int    `json:"permission_code" binding:"required"`
}

// Store creates a user. The stored personal number is the submitted
// seven digits prefixed by a letter derived from the employee type, and
// the email address is derived from it. Creating a user whose personal
// number matches a soft-deleted row revives that row instead.
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /users [post]
func (h *UserHandler) Store(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if !personalNumberPattern.MatchString(req.PersonalNumber) {
		BadRequest(c, "personal_number must be exactly 7 digits")
		return
	}
	if !phoneNumberPattern.MatchString(req.PhoneNumber) {
		BadRequest(c, "phone_number must be 10 digits starting with 05")
		return
	}

	prefix, ok := models.PersonalNumberPrefix(req.EmployeeType)
	if !ok {
		BadRequest(c, "invalid employee type")
		return
	}
	personalNumber := string(prefix) + req.PersonalNumber
	email := fmt.Sprintf("%s@army.idf.il", personalNumber)

	var permission models.Permission
	err := database.DB.
		Where("code_permission = ? AND is_deleted = ?", req.PermissionCode, false).
		First(&permission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		BadRequest(c, "this permission does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("users: store: %v", err)
		InternalError(c)
		return
	}

	var existing models.User
	err = database.DB.
		Where("personal_number = ? AND is_deleted = ?", personalNumber, false).
		First(&existing).Error
	if err == nil {
		Conflict(c, "this user already exists in the system")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("users: store: %v", err)
		InternalError(c)
		return
	}

	var deleted models.User
	err = database.DB.
		Where("personal_number = ? AND is_deleted = ?", personalNumber, true).
		First(&deleted).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"name":            req.Name,
			"personal_number": personalNumber,
			"email":           email,
			"phone_number":    req.PhoneNumber,
			"permission_id":   permission.ID,
			"employee_type":   req.EmployeeType,
			"remember_token":  randomToken(10),
			"is_deleted":      false,
		}
		if err := database.DB.Model(&deleted).Updates(updates).Error; err != nil {
			log.Printf("users: store: %v", err)
			InternalError(c)
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := models.User{
			Name:           req.Name,
			PersonalNumber: personalNumber,
			Email:          email,
			PhoneNumber:    req.PhoneNumber,
			PermissionID:   &permission.ID,
			EmployeeType:   req.EmployeeType,
			RememberToken:  randomToken(10),
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("users: store: %v", err)
			InternalError(c)
			return
		}
	default:
		log.Printf("users: store: %v", err)
		InternalError(c)
		return
	}

	if h.email.Enabled() {
		if err := h.email.SendWelcome(email, req.Name); err != nil {
			log.Printf("users: welcome email to %s: %v", email, err)
		}
	}

	Created(c, "row created successfully")
}

type SetPermissionRequest struct {
	CodePermission int `json:"code_permission" binding:"required"`
}

// SetPermission changes a user's role. The submitted permission code is
// resolved to a permission row before it is written to the foreign key.
func (h *UserHandler) SetPermission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var req SetPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "a permission code is required")
		return
	}

	var permission models.Permission
	err = database.DB.
		Where("code_permission = ? AND is_deleted = ?", req.CodePermission, false).
		First(&permission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		BadRequest(c, "this permission does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("users: set permission: %v", err)
		InternalError(c)
		return
	}

	var user models.User
	err = database.DB.
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this user does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("users: set permission: %v", err)
		InternalError(c)
		return
	}

	if err := database.DB.Model(&user).Update("permission_id", permission.ID).Error; err != nil {
		log.Printf("users: set permission: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row updated successfully")
}

// Delete soft-deletes one user.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var user models.User
	err = database.DB.
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this user does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("users: delete: %v", err)
		InternalError(c)
		return
	}

	if err := database.DB.Model(&user).Update("is_deleted", true).Error; err != nil {
		log.Printf("users: delete: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row deleted successfully")
}

// randomToken returns n random bytes as hex, trimmed to n characters.
func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)[:n]
}
