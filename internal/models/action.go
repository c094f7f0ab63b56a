package models

import "time"

// Action is an operation kind performable on a feature, e.g. "create".
// Same lifecycle as Feature: reconciler-managed.
type Action struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"uniqueIndex;size:50;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Permissions []Permission `gorm:"foreignKey:ActionID"`
}
