package models

import "time"

// Role is a user role from the fixed catalog (Admin, User, TestUser).
type Role struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"uniqueIndex;size:50;not null"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Users []User `gorm:"foreignKey:RoleID"`
}
