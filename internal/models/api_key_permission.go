package models

import "time"

// APIKeyPermission is a grant of one permission to one API key. The
// underlying `api_key_permissions` table uses a composite primary key
// (api_key_id, permission_id) and does not have a single `id` column.
type APIKeyPermission struct {
	APIKeyID     string `gorm:"primaryKey;size:36"`
	PermissionID string `gorm:"primaryKey;size:36"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
