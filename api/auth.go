package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"masha/config"
	"masha/database"
	"masha/middleware"
	"masha/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler implements the login/logout/current-user endpoints.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest is the login exchange: a personnel identifier, no password.
type LoginRequest struct {
	PersonalNumber string `json:"personal_number" binding:"required"`
}

// Login looks up a non-deleted user by personal number, revokes any token
// the user still holds, issues a fresh bearer token and sets it in the
// session cookie.
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	// A live session may not start another one.
	if cookie, err := c.Cookie(middleware.TokenCookieName); err == nil && cookie != "" {
		if claims, err := middleware.ParseToken(cookie); err == nil {
			var active models.AccessToken
			if err := database.DB.Where("token_id = ? AND revoked = ?", claims.ID, false).
				First(&active).Error; err == nil {
				Message(c, http.StatusForbidden, "user is already logged in")
				return
			}
		}
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "a personal number is required"))
		return
	}

	var user models.User
	err := database.DB.Preload("Permission").
		Where("personal_number = ? AND is_deleted = ?", req.PersonalNumber, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Message(c, http.StatusForbidden, "user does not exist in the system")
			return
		}
		log.Printf("login: %v", err)
		InternalError(c)
		return
	}

	// Revoke whatever tokens the user still holds before issuing a new one.
	if err := database.DB.Model(&models.AccessToken{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Update("revoked", true).Error; err != nil {
		log.Printf("login: revoke tokens: %v", err)
		InternalError(c)
		return
	}

	token, tokenID, err := middleware.GenerateToken(user.ID, user.PersonalNumber, h.cfg.JWT.ExpireTime)
	if err != nil {
		log.Printf("login: generate token: %v", err)
		InternalError(c)
		return
	}

	record := models.AccessToken{
		UserID:    user.ID,
		TokenID:   tokenID,
		ExpiresAt: time.Now().Add(h.cfg.JWT.ExpireTime),
	}
	if err := database.DB.Create(&record).Error; err != nil {
		log.Printf("login: store token: %v", err)
		InternalError(c)
		return
	}

	secure, sameSite := cookieOptions(h.cfg)
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.TokenCookieName, token, int(h.cfg.JWT.ExpireTime.Seconds()), "/", "", secure, true)

	permissionName := ""
	if user.Permission != nil {
		permissionName = user.Permission.PermissionName
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"name":            user.Name,
		"permission_name": permissionName,
	})
}

// Logout revokes the presented bearer token and clears the cookie.
// @Summary User logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID := middleware.GetTokenID(c)
	if err := database.DB.Model(&models.AccessToken{}).
		Where("token_id = ?", tokenID).
		Update("revoked", true).Error; err != nil {
		log.Printf("logout: %v", err)
		InternalError(c)
		return
	}

	secure, sameSite := cookieOptions(h.cfg)
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", secure, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged out successfully",
	})
}

// CurrentUser returns the authenticated user with the permission name
// flattened to a string.
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		Message(c, http.StatusForbidden, "user does not exist in the system")
		return
	}

	permissionName := ""
	if user.Permission != nil {
		permissionName = user.Permission.PermissionName
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":              user.ID,
			"name":            user.Name,
			"personal_number": user.PersonalNumber,
			"phone_number":    user.PhoneNumber,
			"email":           user.Email,
			"employee_type":   user.EmployeeType,
			"permission":      permissionName,
		},
	})
}

// cookieOptions returns the cookie security options for the current mode.
// Release mode sends the cookie over HTTPS only; SameSite=Lax keeps
// cross-site POSTs from carrying it.
func cookieOptions(cfg *config.Config) (secure bool, sameSite http.SameSite) {
	if cfg != nil && cfg.Server.Mode == "release" {
		secure = true
	}
	sameSite = http.SameSiteLaxMode
	return
}
