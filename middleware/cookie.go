package middleware

import "github.com/gin-gonic/gin"

// TokenFromCookie copies the session cookie into the Authorization header
// so JWTAuth sees a standard bearer token regardless of how the client
// carried it. An existing Authorization header is left alone.
func TokenFromCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token, err := c.Cookie(TokenCookieName); err == nil && token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}
