package models

import (
	"time"

	"ledgerbot/internal/money"
)

// Transaction is a single recorded income or expense. Transactions are
// immutable once created; CreatedAt is the recorded-at timestamp.
type Transaction struct {
	Base
	UserID      string       `gorm:"type:uuid;not null;index:idx_transactions_user_date" json:"user_id"`
	CategoryID  string       `gorm:"type:uuid;not null;index" json:"category_id"`
	Type        CategoryType `gorm:"size:16;not null" json:"type"`
	Amount      money.Amount `gorm:"type:bigint;not null" json:"amount"`
	Description *string      `json:"description,omitempty"`
	OccurredAt  time.Time    `gorm:"not null;index:idx_transactions_user_date" json:"occurred_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
