package models

import "time"

// UserPermission is a grant of one permission to one user.
type UserPermission struct {
	ID           string `gorm:"primaryKey;size:36"`
	UserID       string `gorm:"size:36;not null;uniqueIndex:uix_user_permission"`
	PermissionID string `gorm:"size:36;not null;uniqueIndex:uix_user_permission"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Permission *Permission `gorm:"foreignKey:PermissionID"`
}
