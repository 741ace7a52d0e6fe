package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
)

// DefaultNearLimitThreshold is the spent/limit ratio at which a budget is near its limit.
var DefaultNearLimitThreshold = decimal.NewFromFloat(0.80)

// BudgetService creates budgets and recomputes their consumption.
type BudgetService struct {
	db         *gorm.DB
	users      UserServicer
	categories CategoryServicer
	threshold  decimal.Decimal
	now        func() time.Time
}

// NewBudgetService creates a new BudgetService. A non-positive threshold falls
// back to DefaultNearLimitThreshold.
func NewBudgetService(db *gorm.DB, users UserServicer, categories CategoryServicer, threshold decimal.Decimal) *BudgetService {
	if !threshold.IsPositive() {
		threshold = DefaultNearLimitThreshold
	}
	return &BudgetService{
		db:         db,
		users:      users,
		categories: categories,
		threshold:  threshold,
		now:        time.Now,
	}
}

// CreateBudget commits a completed guided budget entry. The user and the
// expense category are resolved and the budget inserted in one database
// transaction.
func (s *BudgetService) CreateBudget(in CreateBudgetInput) (*models.Budget, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.ErrInvalidName
	}
	if in.Amount <= 0 {
		return nil, apperrors.ErrAmountNotPositive
	}
	if in.StartDate.IsZero() {
		return nil, apperrors.ErrInvalidPeriod
	}
	var endDate *time.Time
	if in.EndDate != nil {
		if in.EndDate.Before(in.StartDate) {
			return nil, apperrors.ErrInvalidPeriod
		}
		e := in.EndDate.UTC()
		endDate = &e
	}

	var result *models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, _, err := s.users.ResolveUser(tx, in.ExternalID, in.Profile)
		if err != nil {
			return err
		}
		category, err := s.categories.ResolveCategory(tx, user.ID, in.CategoryName, models.CategoryTypeExpense)
		if err != nil {
			return err
		}

		budget := &models.Budget{
			UserID:     user.ID,
			CategoryID: category.ID,
			Name:       name,
			Amount:     in.Amount,
			StartDate:  in.StartDate.UTC(),
			EndDate:    endDate,
			IsActive:   true,
		}
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		budget.Category = category
		result = budget
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetUserBudgets lists all of the user's budgets, newest first.
func (s *BudgetService) GetUserBudgets(userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// DeactivateBudget soft-disables a budget.
func (s *BudgetService) DeactivateBudget(userID, budgetID string) error {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&budget).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetStatus reports every active, unexpired budget of the user with the
// amount spent in its window. Spent is the sum of expense transactions of the
// budget's category within [start, end]; an open-ended budget has no upper bound.
func (s *BudgetService) GetBudgetStatus(userID string) ([]BudgetStatus, error) {
	now := s.now().UTC()

	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("created_at").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		spent, err := s.spent(budget)
		if err != nil {
			return nil, err
		}

		categoryName := ""
		if budget.Category != nil {
			categoryName = budget.Category.Name
		}
		statuses = append(statuses, BudgetStatus{
			Budget:       budget,
			CategoryName: categoryName,
			Limit:        budget.Amount,
			Spent:        spent,
			Remaining:    budget.Amount - spent,
			Exceeded:     spent > budget.Amount,
			Percent:      money.Percent(spent, budget.Amount),
		})
	}
	return statuses, nil
}

func (s *BudgetService) spent(budget models.Budget) (money.Amount, error) {
	q := s.db.Model(&models.Transaction{}).
		Select("CAST(COALESCE(SUM(amount), 0) AS BIGINT)").
		Where("user_id = ? AND category_id = ? AND type = ?", budget.UserID, budget.CategoryID, models.CategoryTypeExpense).
		Where("occurred_at >= ?", budget.StartDate.UTC())
	if budget.EndDate != nil {
		q = q.Where("occurred_at <= ?", budget.EndDate.UTC())
	}

	var spent int64
	if err := q.Scan(&spent).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return money.Amount(spent), nil
}

// GetBudgetAlerts returns an alert for every budget that is exceeded or whose
// spent/limit ratio reached the near-limit threshold.
func (s *BudgetService) GetBudgetAlerts(userID string) ([]BudgetAlert, error) {
	statuses, err := s.GetBudgetStatus(userID)
	if err != nil {
		return nil, err
	}

	var alerts []BudgetAlert
	for _, status := range statuses {
		if alert, ok := s.classify(status); ok {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}

func (s *BudgetService) classify(status BudgetStatus) (BudgetAlert, bool) {
	switch {
	case status.Spent > status.Limit:
		return BudgetAlert{
			Level:  AlertExceeded,
			Status: status,
			Message: fmt.Sprintf("Budget %q exceeded: spent %s of %s",
				status.Budget.Name, status.Spent, status.Limit),
		}, true
	case money.Ratio(status.Spent, status.Limit).GreaterThanOrEqual(s.threshold):
		return BudgetAlert{
			Level:  AlertNearLimit,
			Status: status,
			Message: fmt.Sprintf("Budget %q is near its limit: spent %s of %s (%s%%)",
				status.Budget.Name, status.Spent, status.Limit, status.Percent.StringFixed(1)),
		}, true
	}
	return BudgetAlert{}, false
}
