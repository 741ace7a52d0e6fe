package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
)

// ChatService keeps track of the conversation each user talks from, so that
// budget alerts can be delivered there later.
type ChatService struct {
	db *gorm.DB
}

// NewChatService creates a new ChatService.
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// RecordActivity points the user's chat link at conversationID and bumps the
// message counter, creating the link on first use.
func (s *ChatService) RecordActivity(userID, conversationID string, at time.Time) error {
	at = at.UTC()
	link := &models.ChatLink{
		UserID:               userID,
		ConversationID:       conversationID,
		NotificationsEnabled: true,
		LastMessageAt:        &at,
		MessageCount:         1,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"conversation_id": conversationID,
			"last_message_at": at,
			"message_count":   gorm.Expr("chat_links.message_count + 1"),
			"updated_at":      at,
		}),
	}).Create(link).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetLink retrieves the chat link of a user.
func (s *ChatService) GetLink(userID string) (*models.ChatLink, error) {
	var link models.ChatLink
	if err := s.db.Where("user_id = ?", userID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}

// SetNotifications turns budget alert delivery on or off for a user.
func (s *ChatService) SetNotifications(userID string, enabled bool) error {
	result := s.db.Model(&models.ChatLink{}).
		Where("user_id = ?", userID).
		Update("notifications_enabled", enabled)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListNotifiable returns the links of active users that accept notifications.
func (s *ChatService) ListNotifiable() ([]models.ChatLink, error) {
	var links []models.ChatLink
	if err := s.db.Preload("User").
		Joins("JOIN users ON users.id = chat_links.user_id").
		Where("chat_links.notifications_enabled = ? AND users.is_active = ?", true, true).
		Order("chat_links.created_at").
		Find(&links).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return links, nil
}
