package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
)

// CategoryService resolves and looks up a user's categories.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// ResolveCategory returns the user's category of the given kind whose name
// matches case-insensitively, creating it with the exact name if absent.
// A nil tx runs against the service connection.
func (s *CategoryService) ResolveCategory(tx *gorm.DB, userID, name string, kind models.CategoryType) (*models.Category, error) {
	if tx == nil {
		tx = s.db
	}
	if !kind.Valid() {
		return nil, apperrors.ErrInvalidKind
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrInvalidName
	}

	category, err := findCategoryByName(tx, userID, name, kind)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	candidate := &models.Category{
		UserID:   userID,
		Name:     name,
		Type:     kind,
		IsActive: true,
	}
	// The unique (user_id, type, lower(name)) index turns a lost race into a no-op.
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(candidate).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category, err = findCategoryByName(tx, userID, name, kind)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

func findCategoryByName(tx *gorm.DB, userID, name string, kind models.CategoryType) (*models.Category, error) {
	var category models.Category
	err := tx.Where("user_id = ? AND type = ? AND lower(name) = lower(?)", userID, kind, name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetUserCategoriesByType lists the user's active categories of one kind, by name.
func (s *CategoryService) GetUserCategoriesByType(userID string, kind models.CategoryType) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ? AND type = ? AND is_active = ?", userID, kind, true).
		Order("name").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *CategoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// DeleteCategory deletes a category together with its transactions and budgets.
func (s *CategoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Budget{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
