package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expense_tracker/internal/audit"
	"expense_tracker/internal/authz"
	"expense_tracker/internal/models"
)

// ListPermissions returns every permission with resolved feature/action names.
func ListPermissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type permRow struct {
			ID      string `json:"id"`
			Feature string `json:"feature"`
			Action  string `json:"action"`
		}
		var rows []permRow
		err := db.Table("permissions p").
			Joins("JOIN features f ON f.id = p.feature_id").
			Joins("JOIN actions a ON a.id = p.action_id").
			Order("f.name, a.name").
			Select("p.id AS id, f.name AS feature, a.name AS action").
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"permissions": rows})
	}
}

// GrantAllToUser grants the target user every permission it is missing.
func GrantAllToUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		granted, err := authz.GrantAllToUser(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Record(db, c, "users.grant_all", "user", userID, gin.H{"granted": granted})
		c.JSON(http.StatusOK, gin.H{"granted": granted})
	}
}

// RevokeAllFromUser removes every grant from the target user.
func RevokeAllFromUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		removed, err := authz.RevokeAllFromUser(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Record(db, c, "users.revoke_all", "user", userID, gin.H{"removed": removed})
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}

// GrantAllToAPIKey grants the target API key every permission it is missing.
func GrantAllToAPIKey(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyID := c.Param("id")
		var key models.APIKey
		if err := db.First(&key, "id = ?", keyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}

		granted, err := authz.GrantAllToAPIKey(db, keyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Record(db, c, "api_keys.grant_all", "api_key", keyID, gin.H{"granted": granted})
		c.JSON(http.StatusOK, gin.H{"granted": granted})
	}
}

// RevokeAllFromAPIKey removes every grant from the target API key.
func RevokeAllFromAPIKey(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyID := c.Param("id")
		var key models.APIKey
		if err := db.First(&key, "id = ?", keyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}

		removed, err := authz.RevokeAllFromAPIKey(db, keyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Record(db, c, "api_keys.revoke_all", "api_key", keyID, gin.H{"removed": removed})
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}
