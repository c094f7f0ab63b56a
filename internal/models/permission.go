package models

import "time"

// Permission pairs one feature with one action ("may perform Action on Feature").
// A permission exists only while both its feature and action exist.
type Permission struct {
	ID        string `gorm:"primaryKey;size:36"`
	FeatureID string `gorm:"size:36;not null;uniqueIndex:uix_feature_action"`
	ActionID  string `gorm:"size:36;not null;uniqueIndex:uix_feature_action"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Feature *Feature `gorm:"foreignKey:FeatureID"`
	Action  *Action  `gorm:"foreignKey:ActionID"`
}
