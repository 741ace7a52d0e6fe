package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
)

// topCategoriesLimit is the number of expense categories in a monthly summary.
const topCategoriesLimit = 5

// AnalyticsService answers read-only aggregation queries over transactions.
// Calendar boundaries are computed in loc.
type AnalyticsService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(db *gorm.DB, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{db: db, loc: loc}
}

// SumByCategory totals the user's transactions of one kind per category over
// the inclusive range [from, to], largest total first.
func (s *AnalyticsService) SumByCategory(userID string, kind models.CategoryType, from, to time.Time) ([]CategoryTotal, error) {
	return s.sumByCategory(userID, kind, "transactions.occurred_at <= ?", from, to, 0)
}

// TopExpenseCategories returns at most limit expense categories over [from, to].
func (s *AnalyticsService) TopExpenseCategories(userID string, from, to time.Time, limit int) ([]CategoryTotal, error) {
	return s.sumByCategory(userID, models.CategoryTypeExpense, "transactions.occurred_at <= ?", from, to, limit)
}

func (s *AnalyticsService) sumByCategory(userID string, kind models.CategoryType, upper string, from, to time.Time, limit int) ([]CategoryTotal, error) {
	q := s.db.Table("transactions").
		Select("categories.id AS category_id, categories.name AS name, " +
			"CAST(COALESCE(SUM(transactions.amount), 0) AS BIGINT) AS total, COUNT(transactions.id) AS count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ?", userID, kind).
		Where("transactions.occurred_at >= ?", from.UTC()).
		Where(upper, to.UTC()).
		Group("categories.id, categories.name").
		Order("total DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	totals := []CategoryTotal{}
	if err := q.Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}

type kindTotal struct {
	Type  models.CategoryType
	Total int64
	Count int64
}

// totalsByKind sums income and expenses over [from, to).
func (s *AnalyticsService) totalsByKind(userID string, from, to time.Time) (income, expense money.Amount, count int64, err error) {
	var rows []kindTotal
	err = s.db.Model(&models.Transaction{}).
		Select("type, CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS total, COUNT(*) AS count").
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, from.UTC(), to.UTC()).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, row := range rows {
		switch row.Type {
		case models.CategoryTypeIncome:
			income = money.Amount(row.Total)
		case models.CategoryTypeExpense:
			expense = money.Amount(row.Total)
		}
		count += row.Count
	}
	return income, expense, count, nil
}

// MonthBounds returns the first instant of the month and of the following month.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// MonthlySummary aggregates one calendar month. The window is end-exclusive:
// [first instant of month, first instant of next month).
func (s *AnalyticsService) MonthlySummary(userID string, year int, month time.Month) (*MonthlySummary, error) {
	start, end := MonthBounds(year, month, s.loc)

	income, expense, count, err := s.totalsByKind(userID, start, end)
	if err != nil {
		return nil, err
	}
	top, err := s.sumByCategory(userID, models.CategoryTypeExpense, "transactions.occurred_at < ?", start, end, topCategoriesLimit)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		Year:                 year,
		Month:                month,
		Start:                start,
		End:                  end,
		TotalIncome:          income,
		TotalExpenses:        expense,
		Balance:              income - expense,
		TransactionCount:     count,
		TopExpenseCategories: top,
	}, nil
}

// WeeklySummary aggregates the seven calendar days ending with the day of now,
// one entry per day in chronological order.
func (s *AnalyticsService) WeeklySummary(userID string, now time.Time) (*WeeklySummary, error) {
	now = now.In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	start := today.AddDate(0, 0, -6)
	end := today.AddDate(0, 0, 1)

	var transactions []models.Transaction
	if err := s.db.Select("type", "amount", "occurred_at").
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, start.UTC(), end.UTC()).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	days := make([]DailyStat, 7)
	index := make(map[string]int, 7)
	for i := range days {
		key := start.AddDate(0, 0, i).Format(time.DateOnly)
		days[i].Date = key
		index[key] = i
	}

	summary := &WeeklySummary{Start: start, End: end}
	for _, t := range transactions {
		i, ok := index[t.OccurredAt.In(s.loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		days[i].Count++
		summary.TransactionCount++
		switch t.Type {
		case models.CategoryTypeIncome:
			days[i].Income += t.Amount
			summary.TotalIncome += t.Amount
		case models.CategoryTypeExpense:
			days[i].Expense += t.Amount
			summary.TotalExpenses += t.Amount
		}
	}
	summary.Days = days
	summary.Balance = summary.TotalIncome - summary.TotalExpenses
	return summary, nil
}
