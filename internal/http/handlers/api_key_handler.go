package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"expense_tracker/internal/audit"
	"expense_tracker/internal/auth"
	"expense_tracker/internal/authz"
	"expense_tracker/internal/models"
)

func ListAPIKeys(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var keys []models.APIKey
		if err := db.Order("created_at").Find(&keys).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"api_keys": keys})
	}
}

// CreateAPIKey generates a new key. The key string is returned once and never
// again. With grant_all set, every extant permission is granted to the key.
func CreateAPIKey(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			GrantAll bool `json:"grant_all"`
		}
		// Body is optional.
		_ = c.ShouldBindJSON(&in)

		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate key"})
			return
		}
		keyString := base64.RawURLEncoding.EncodeToString(b)

		key := models.APIKey{ID: uuid.NewString(), Key: keyString, IsActive: true}
		if creatorID, ok := auth.UserID(c); ok {
			key.CreatedBy = &creatorID
		}

		if err := db.Create(&key).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		granted := 0
		if in.GrantAll {
			var err error
			granted, err = authz.GrantAllToAPIKey(db, key.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		audit.Record(db, c, "api_keys.create", "api_key", key.ID, gin.H{"grant_all": in.GrantAll, "granted": granted})
		c.JSON(http.StatusCreated, gin.H{
			"id":                  key.ID,
			"key":                 keyString,
			"permissions_granted": granted,
		})
	}
}

// RevokeAPIKey deactivates a key; its grants stay in place but the key no
// longer authenticates.
func RevokeAPIKey(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var key models.APIKey
		err := db.First(&key, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		key.IsActive = false
		if err := db.Save(&key).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Record(db, c, "api_keys.revoke", "api_key", key.ID, nil)
		c.JSON(http.StatusOK, gin.H{"revoked": true})
	}
}
