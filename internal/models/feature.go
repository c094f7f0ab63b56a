package models

import "time"

// Feature is a protectable resource category, e.g. "expenses".
// Rows are created and removed only by the catalog reconciler.
type Feature struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"uniqueIndex;size:50;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Permissions []Permission `gorm:"foreignKey:FeatureID"`
}
