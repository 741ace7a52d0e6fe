package models

import "time"

// ChatLink remembers the conversation a user last talked to the bot from, so
// budget alerts can be pushed there, along with simple activity counters.
type ChatLink struct {
	Base
	UserID               string     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	ConversationID       string     `gorm:"size:64;not null" json:"conversation_id"`
	NotificationsEnabled bool       `gorm:"not null;default:true" json:"notifications_enabled"`
	LastMessageAt        *time.Time `json:"last_message_at,omitempty"`
	MessageCount         int64      `gorm:"not null;default:0" json:"message_count"`
	User                 *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
