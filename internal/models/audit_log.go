package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID           int64          `gorm:"primaryKey"`
	UserID       *string        `gorm:"size:36;index"`     // nullable (API-key and system actions)
	Action       string         `gorm:"size:200;not null"` // e.g. "users.grant_all", "expenses.create"
	ResourceType string         `gorm:"size:100"`          // e.g. "user", "api_key", "expense"
	ResourceID   string         `gorm:"size:64;index"`
	Metadata     datatypes.JSON `gorm:"type:json"` // details of what changed
	IP           string         `gorm:"size:64"`
	UserAgent    string         `gorm:"size:255"`
	CreatedAt    time.Time

	User *User `gorm:"foreignKey:UserID"`
}
