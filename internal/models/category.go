package models

import "time"

// Category supports a self-referential parent/children tree. Cycle
// prevention is enforced at the handler level, not by the schema.
type Category struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	ParentID  *int64 `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Parent   *Category  `gorm:"foreignKey:ParentID"`
	Children []Category `gorm:"foreignKey:ParentID"`
}
