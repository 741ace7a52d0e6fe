package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
)

// UserService resolves chat accounts to users and manages their lifecycle.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ResolveUser returns the user owning externalID, creating it from profile on
// first contact. The bool reports whether this call created the row. A nil tx
// runs against the service connection.
//
// Concurrent first contacts are safe: the insert ignores the unique conflict
// and the row is re-read, so exactly one user exists per external id.
func (s *UserService) ResolveUser(tx *gorm.DB, externalID string, profile models.Profile) (*models.User, bool, error) {
	if tx == nil {
		tx = s.db
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, false, apperrors.ErrInvalidExternalID
	}

	var user models.User
	err := tx.Where("external_id = ?", externalID).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	candidate := &models.User{
		ExternalID:   externalID,
		Username:     profile.Username,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		LanguageCode: profile.LanguageCode,
		IsActive:     true,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(candidate)
	if result.Error != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	created := result.RowsAffected == 1

	if err := tx.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, created, nil
}

// GetUserByExternalID retrieves a user by chat account id without creating it.
func (s *UserService) GetUserByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// SetActive soft-enables or soft-disables a user.
func (s *UserService) SetActive(userID string, active bool) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", active)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user and everything the user owns.
func (s *UserService) DeleteUser(userID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.ChatLink{},
			&models.Report{},
			&models.Budget{},
			&models.Transaction{},
			&models.Category{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}

// ListActiveUsers returns all users that have not been disabled.
func (s *UserService) ListActiveUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("is_active = ?", true).Order("created_at").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}
