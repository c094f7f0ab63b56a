package audit

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/models"
)

// Record writes one audit entry for the current request. Audit writes are
// best-effort: a failed insert never fails the request that triggered it.
func Record(db *gorm.DB, c *gin.Context, action, resourceType, resourceID string, meta map[string]interface{}) {
	var userID *string
	if uid, ok := auth.UserID(c); ok {
		userID = &uid
	}

	var metaJSON datatypes.JSON
	if meta != nil {
		if b, err := json.Marshal(meta); err == nil {
			metaJSON = datatypes.JSON(b)
		}
	}

	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metaJSON,
		IP:           c.ClientIP(),
		UserAgent:    c.GetHeader("User-Agent"),
		CreatedAt:    time.Now(),
	}
	_ = db.Create(&entry).Error
}
