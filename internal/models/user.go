package models

import "time"

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	RoleID       string `gorm:"size:36;index;not null"`
	// No column default: every creation path sets the flag explicitly, and a
	// default tag would make gorm omit a false value on insert.
	IsActive        bool
	PasswordChanged bool
	CreatedBy       *string `gorm:"size:36"` // nullable (seeded users have no creator)
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Role        *Role            `gorm:"foreignKey:RoleID"`
	Permissions []UserPermission `gorm:"foreignKey:UserID"`
}
