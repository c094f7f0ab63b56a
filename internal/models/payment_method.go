package models

import "time"

type PaymentMethod struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Expenses []Expense `gorm:"foreignKey:PaymentMethodID"`
}
