package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin aborts with 403 unless the authenticated user's permission
// name is "admin". Must run after JWTAuth; every mutating route goes
// through this single gate instead of repeating the role check.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetCurrentUser(c)
		if user == nil {
			abortUnauthorized(c)
			return
		}
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"message": "user is not allowed to perform this action"})
			c.Abort()
			return
		}
		c.Next()
	}
}
