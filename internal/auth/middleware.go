package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

// Context keys set by Authenticate.
const (
	CtxClaims   = "claims"
	CtxAPIKeyID = "api_key_id"
)

// Claims represents the JWT claims structure.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticate returns a Gin middleware that accepts either an X-API-Key
// header (active API key lookup) or a Bearer JWT from the Authorization
// header / "token" cookie. It verifies the user is still active and stores
// the resolved identity in the context.
func Authenticate(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keyStr := c.GetHeader("X-API-Key"); keyStr != "" {
			var key models.APIKey
			if err := db.Where("`key` = ? AND is_active = ?", keyStr, true).First(&key).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
				c.Abort()
				return
			}
			c.Set(CtxAPIKeyID, key.ID)
			c.Next()
			return
		}

		tokenStr := c.GetHeader("Authorization")

		// Fallback: read from cookie if no Authorization header
		if tokenStr == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenStr = "Bearer " + cookie
			}
		}

		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token or API key"})
			c.Abort()
			return
		}

		tokenStr = strings.TrimSpace(strings.TrimPrefix(tokenStr, "Bearer "))

		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}

		// Verify user still exists and is active
		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account deactivated"})
			c.Abort()
			return
		}

		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// UserID returns the authenticated user's ID, when the request carried a JWT.
func UserID(c *gin.Context) (string, bool) {
	claimsI, ok := c.Get(CtxClaims)
	if !ok {
		return "", false
	}
	cl, ok := claimsI.(*Claims)
	if !ok {
		return "", false
	}
	return cl.UserID, true
}

// APIKeyID returns the authenticated API key's ID, when one was used.
func APIKeyID(c *gin.Context) (string, bool) {
	idI, ok := c.Get(CtxAPIKeyID)
	if !ok {
		return "", false
	}
	id, ok := idI.(string)
	return id, ok
}
