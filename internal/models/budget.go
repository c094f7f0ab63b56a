package models

import "time"

// Budget is a monthly spending cap for one category. Month is "YYYY-MM".
type Budget struct {
	ID         int64   `gorm:"primaryKey"`
	CategoryID int64   `gorm:"not null;uniqueIndex:uix_budget_category_month"`
	Month      string  `gorm:"size:7;not null;uniqueIndex:uix_budget_category_month"`
	Amount     float64 `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}
