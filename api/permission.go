package api

import (
	"errors"
	"log"

	"masha/database"
	"masha/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PermissionHandler implements the /permissions endpoints.
type PermissionHandler struct{}

func NewPermissionHandler() *PermissionHandler {
	return &PermissionHandler{}
}

// List returns all non-deleted permissions.
// @Summary List permissions
// @Tags permissions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /permissions [get]
func (h *PermissionHandler) List(c *gin.Context) {
	var permissions []models.Permission
	if err := database.DB.
		Where("is_deleted = ?", false).
		Find(&permissions).Error; err != nil {
		log.Printf("permissions: list: %v", err)
		InternalError(c)
		return
	}
	Data(c, permissions)
}

type PermissionCreateRequest struct {
	CodePermission int    `json:"code_permission" binding:"required"`
	PermissionName string `json:"permission_name" binding:"required"`
}

// Store creates a permission. The code and the name are each checked
// for uniqueness among non-deleted rows.
// @Summary Create permission
// @Tags permissions
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /permissions [post]
func (h *PermissionHandler) Store(c *gin.Context) {
	var req PermissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var existing models.Permission
	err := database.DB.
		Where("code_permission = ? AND is_deleted = ?", req.CodePermission, false).
		First(&existing).Error
	if err == nil {
		Conflict(c, "this permission code already exists in the system")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("permissions: store: %v", err)
		InternalError(c)
		return
	}

	err = database.DB.
		Where("permission_name = ? AND is_deleted = ?", req.PermissionName, false).
		First(&existing).Error
	if err == nil {
		Conflict(c, "this permission name already exists in the system")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("permissions: store: %v", err)
		InternalError(c)
		return
	}

	permission := models.Permission{
		CodePermission: req.CodePermission,
		PermissionName: req.PermissionName,
	}
	if err := database.DB.Create(&permission).Error; err != nil {
		log.Printf("permissions: store: %v", err)
		InternalError(c)
		return
	}

	Created(c, "row created successfully")
}
