package models

import "time"

// APIKey authorizes programmatic access. The key string is shown once at
// creation time; afterwards only the record metadata is exposed.
type APIKey struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Key       string  `gorm:"uniqueIndex;size:64;not null" json:"-"`
	IsActive  bool
	CreatedBy *string `gorm:"size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Permissions []APIKeyPermission `gorm:"foreignKey:APIKeyID"`
}
