package models

import "time"

type Expense struct {
	ID              int64     `gorm:"primaryKey"`
	Amount          float64   `gorm:"type:decimal(10,2);not null"`
	Date            time.Time `gorm:"type:date;not null"`
	Description     string    `gorm:"size:255"`
	CategoryID      int64     `gorm:"index;not null"`
	PaymentMethodID int64     `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Category      *Category      `gorm:"foreignKey:CategoryID"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID"`
}
