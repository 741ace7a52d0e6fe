package models

// User is the owner of all financial records. It is identified by the id of
// the account on the chat platform (ExternalID) and created lazily.
type User struct {
	Base
	ExternalID   string        `gorm:"size:64;uniqueIndex;not null" json:"external_id"`
	Username     string        `gorm:"size:255" json:"username,omitempty"`
	FirstName    string        `gorm:"size:255" json:"first_name,omitempty"`
	LastName     string        `gorm:"size:255" json:"last_name,omitempty"`
	LanguageCode string        `gorm:"size:10" json:"language_code,omitempty"`
	IsActive     bool          `gorm:"not null;default:true" json:"is_active"`
	Categories   []Category    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"budgets,omitempty"`
	Reports      []Report      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"reports,omitempty"`
}

// Profile carries the display fields a chat platform reports for a user.
// It seeds a new User on first contact.
type Profile struct {
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// DisplayName returns the best available human name for the user.
func (p Profile) DisplayName() string {
	switch {
	case p.FirstName != "":
		return p.FirstName
	case p.Username != "":
		return p.Username
	default:
		return "there"
	}
}
