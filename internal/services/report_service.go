package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
)

// defaultReportHistory is the number of reports listed when no limit is given.
const defaultReportHistory = 10

// ReportService generates summaries through AnalyticsServicer and stores them
// as write-once Report rows with a JSON payload.
type ReportService struct {
	db        *gorm.DB
	analytics AnalyticsServicer
	loc       *time.Location
}

// NewReportService creates a new ReportService.
func NewReportService(db *gorm.DB, analytics AnalyticsServicer, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{db: db, analytics: analytics, loc: loc}
}

// GenerateMonthlyReport computes and persists the summary of one calendar month.
func (s *ReportService) GenerateMonthlyReport(userID string, year int, month time.Month) (*models.Report, *MonthlySummary, error) {
	if month < time.January || month > time.December {
		return nil, nil, apperrors.ErrInvalidReportPeriod
	}
	summary, err := s.analytics.MonthlySummary(userID, year, month)
	if err != nil {
		return nil, nil, err
	}

	name := fmt.Sprintf("Monthly report %04d-%02d", year, int(month))
	report, err := s.store(userID, name, models.ReportTypeMonthly, summary.Start, summary.End, summary)
	if err != nil {
		return nil, nil, err
	}
	return report, summary, nil
}

// GenerateWeeklyReport computes and persists the summary of the last seven days.
func (s *ReportService) GenerateWeeklyReport(userID string, now time.Time) (*models.Report, *WeeklySummary, error) {
	summary, err := s.analytics.WeeklySummary(userID, now)
	if err != nil {
		return nil, nil, err
	}

	lastDay := summary.End.AddDate(0, 0, -1)
	name := fmt.Sprintf("Weekly report %s to %s", summary.Start.Format(time.DateOnly), lastDay.Format(time.DateOnly))
	report, err := s.store(userID, name, models.ReportTypeWeekly, summary.Start, summary.End, summary)
	if err != nil {
		return nil, nil, err
	}
	return report, summary, nil
}

// GenerateCategoryReport totals both kinds by category for the month of now.
// It is computed on demand and not persisted.
func (s *ReportService) GenerateCategoryReport(userID string, now time.Time) (*CategoryReport, error) {
	now = now.In(s.loc)
	start, next := MonthBounds(now.Year(), now.Month(), s.loc)
	end := next.Add(-time.Nanosecond)

	income, err := s.analytics.SumByCategory(userID, models.CategoryTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expense, err := s.analytics.SumByCategory(userID, models.CategoryTypeExpense, start, end)
	if err != nil {
		return nil, err
	}
	return &CategoryReport{Start: start, End: next, Income: income, Expense: expense}, nil
}

func (s *ReportService) store(userID, name string, kind models.ReportType, start, end time.Time, payload interface{}) (*models.Report, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &models.Report{
		UserID:    userID,
		Name:      name,
		Type:      kind,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		Data:      string(data),
	}
	if err := s.db.Create(report).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return report, nil
}

// GetUserReports lists the user's reports, newest first, optionally of one kind.
func (s *ReportService) GetUserReports(userID string, kind *models.ReportType, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = defaultReportHistory
	}

	q := s.db.Where("user_id = ?", userID)
	if kind != nil {
		if !kind.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown report type")
		}
		q = q.Where("type = ?", *kind)
	}

	var reports []models.Report
	if err := q.Order("created_at DESC").Limit(limit).Find(&reports).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reports, nil
}

// GetReportByID retrieves a report by ID for a specific user
func (s *ReportService) GetReportByID(userID, reportID string) (*models.Report, error) {
	var report models.Report
	if err := s.db.Where("id = ? AND user_id = ?", reportID, userID).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReportNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &report, nil
}
