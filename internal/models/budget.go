package models

import (
	"time"

	"ledgerbot/internal/money"
)

// Budget is a spending limit for one expense category over a date window.
// Spent amounts are never stored; they are recomputed from transactions.
type Budget struct {
	Base
	UserID     string       `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string       `gorm:"type:uuid;not null;index" json:"category_id"`
	Name       string       `gorm:"size:255;not null" json:"name"`
	Amount     money.Amount `gorm:"type:bigint;not null" json:"amount"`
	StartDate  time.Time    `gorm:"not null" json:"start_date"`
	EndDate    *time.Time   `json:"end_date,omitempty"`
	IsActive   bool         `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
