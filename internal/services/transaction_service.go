package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
	"ledgerbot/internal/pagination"
)

// TransactionService records and lists income and expense transactions.
type TransactionService struct {
	db         *gorm.DB
	users      UserServicer
	categories CategoryServicer
	now        func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(db *gorm.DB, users UserServicer, categories CategoryServicer) *TransactionService {
	return &TransactionService{
		db:         db,
		users:      users,
		categories: categories,
		now:        time.Now,
	}
}

// RecordTransaction commits a completed guided entry: the user and the
// category are resolved and the transaction inserted in one database
// transaction, so a failure leaves nothing behind.
func (s *TransactionService) RecordTransaction(in RecordTransactionInput) (*models.Transaction, error) {
	if !in.Kind.Valid() {
		return nil, apperrors.ErrInvalidKind
	}
	if in.Amount <= 0 {
		return nil, apperrors.ErrAmountNotPositive
	}
	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, _, err := s.users.ResolveUser(tx, in.ExternalID, in.Profile)
		if err != nil {
			return err
		}
		category, err := s.categories.ResolveCategory(tx, user.ID, in.CategoryName, in.Kind)
		if err != nil {
			return err
		}
		result, err = s.CreateTransaction(tx, user.ID, category.ID, in.Kind, in.Amount, in.Description, occurredAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateTransaction inserts a transaction into an existing category. The kind
// must equal the category's kind. A nil tx runs against the service connection.
func (s *TransactionService) CreateTransaction(
	tx *gorm.DB,
	userID string,
	categoryID string,
	kind models.CategoryType,
	amount money.Amount,
	description *string,
	occurredAt time.Time,
) (*models.Transaction, error) {
	if tx == nil {
		tx = s.db
	}
	if amount <= 0 {
		return nil, apperrors.ErrAmountNotPositive
	}

	var category models.Category
	if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Type != kind {
		return nil, apperrors.ErrKindMismatch
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  category.ID,
		Type:        kind,
		Amount:      amount,
		Description: description,
		OccurredAt:  occurredAt.UTC(),
	}
	if err := tx.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	transaction.Category = &category
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *TransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var totalItems int64
	base := applyTransactionFilters(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Order("occurred_at DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecentTransactions returns the user's latest transactions.
func (s *TransactionService) GetRecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	page, err := s.GetUserTransactions(userID, pagination.PageRequest{Page: 1, PageSize: limit}, TransactionFilter{})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// ListTransactions returns every transaction matching filter, oldest first.
func (s *TransactionService) ListTransactions(userID string, filter TransactionFilter) ([]models.Transaction, error) {
	var transactions []models.Transaction
	q := applyTransactionFilters(s.db.Where("user_id = ?", userID), filter)
	if err := q.Preload("Category").Order("occurred_at, created_at").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("occurred_at >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("occurred_at <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *TransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}
