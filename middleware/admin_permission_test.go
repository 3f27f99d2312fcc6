package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"masha/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminGateRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Set(ContextUserIDKey, user.ID)
			c.Set(ContextUserKey, user)
			c.Next()
		})
	}
	router.Use(RequireAdmin())
	router.POST("/mutate", func(c *gin.Context) {
		c.String(200, "ok")
	})
	return router
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	router := adminGateRouter(&models.User{
		ID:         1,
		Permission: &models.Permission{PermissionName: models.PermissionAdmin},
	})

	req := httptest.NewRequest("POST", "/mutate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	router := adminGateRouter(&models.User{
		ID:         2,
		Permission: &models.Permission{PermissionName: models.PermissionClient},
	})

	req := httptest.NewRequest("POST", "/mutate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not allowed")
}

func TestRequireAdmin_NoPermissionRow(t *testing.T) {
	router := adminGateRouter(&models.User{ID: 3})

	req := httptest.NewRequest("POST", "/mutate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_NoUser(t *testing.T) {
	router := adminGateRouter(nil)

	req := httptest.NewRequest("POST", "/mutate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
