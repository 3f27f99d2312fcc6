package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"masha/config"
	"masha/database"
	"masha/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookieName is the cookie that carries the bearer token between the
// browser and the API.
const TokenCookieName = "MashaToken"

// Context keys set by JWTAuth.
const (
	ContextUserIDKey  = "userID"
	ContextUserKey    = "currentUser"
	ContextTokenIDKey = "tokenID"
)

var jwtSecret []byte

// Claims are the token claims; the jti (RegisteredClaims.ID) keys the
// persisted access_tokens row so tokens can be revoked.
type Claims struct {
	UserID         uint   `json:"user_id"`
	PersonalNumber string `json:"personal_number"`
	jwt.RegisteredClaims
}

// InitJWT sets the signing secret from configuration.
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken issues a signed token and returns it with its token ID.
func GenerateToken(userID uint, personalNumber string, expire time.Duration) (string, string, error) {
	tokenID, err := randomTokenID()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	claims := Claims{
		UserID:         userID,
		PersonalNumber: personalNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", "", err
	}
	return signed, tokenID, nil
}

func randomTokenID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JWTAuth authenticates the request from the Authorization header
// (populated from the cookie by TokenFromCookie). The token must parse,
// its access_tokens row must not be revoked, and the user must still
// exist and not be soft-deleted. On success the acting user is placed in
// the request context for the handlers and the admin gate.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		var token models.AccessToken
		if err := database.DB.Where("token_id = ? AND revoked = ?", claims.ID, false).
			First(&token).Error; err != nil {
			abortUnauthorized(c)
			return
		}

		var user models.User
		if err := database.DB.Preload("Permission").
			Where("id = ? AND is_deleted = ?", claims.UserID, false).
			First(&user).Error; err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, &user)
		c.Set(ContextTokenIDKey, claims.ID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required (401)"})
	c.Abort()
}

// GetCurrentUserID returns the authenticated user's id, or 0.
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentUser returns the authenticated user, or nil.
func GetCurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// GetTokenID returns the token ID of the presented bearer token, or "".
func GetTokenID(c *gin.Context) string {
	if v, ok := c.Get(ContextTokenIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
