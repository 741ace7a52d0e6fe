package models

// CategoryType is the income/expense discriminator shared by categories and
// transactions.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is a known kind.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category groups transactions of one kind for one user. The pair
// (user, lower(name)) is unique within a kind.
type Category struct {
	Base
	UserID      string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Type        CategoryType `gorm:"size:16;not null" json:"type"`
	Description string       `json:"description,omitempty"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"budgets,omitempty"`
}
