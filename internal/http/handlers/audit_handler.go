package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

// ListAudit returns audit entries newest first with cursor pagination.
func ListAudit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}

		var afterID int64
		if cursorStr := c.Query("after_id"); cursorStr != "" {
			if parsed, err := strconv.ParseInt(cursorStr, 10, 64); err == nil && parsed > 0 {
				afterID = parsed
			}
		}

		search := strings.TrimSpace(c.Query("q"))

		query := db.Model(&models.AuditLog{}).Order("id DESC")
		if afterID > 0 {
			query = query.Where("id < ?", afterID)
		}
		if search != "" {
			like := "%" + search + "%"
			query = query.Where("(action LIKE ? OR resource_type LIKE ? OR ip LIKE ?)", like, like, like)
		}

		var logs []models.AuditLog
		if err := query.Limit(limit + 1).Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// The filter is strict (id < after_id), so the cursor is the last
		// entry returned, not the first of the next page.
		var nextCursor *int64
		if len(logs) > limit {
			logs = logs[:limit]
			next := logs[limit-1].ID
			nextCursor = &next
		}

		c.JSON(http.StatusOK, gin.H{
			"logs":        logs,
			"next_cursor": nextCursor,
		})
	}
}
