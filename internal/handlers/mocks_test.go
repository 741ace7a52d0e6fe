package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ledgerbot/internal/dialog"
	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
	"ledgerbot/internal/pagination"
	"ledgerbot/internal/services"
	"ledgerbot/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- mock user service ---

type mockUserService struct {
	getUserByExternalIDFn func(externalID string) (*models.User, error)
}

func (m *mockUserService) ResolveUser(_ *gorm.DB, externalID string, _ models.Profile) (*models.User, bool, error) {
	return &models.User{ExternalID: externalID}, false, nil
}

func (m *mockUserService) GetUserByExternalID(externalID string) (*models.User, error) {
	if m.getUserByExternalIDFn != nil {
		return m.getUserByExternalIDFn(externalID)
	}
	return &models.User{Base: models.Base{ID: "user-1"}, ExternalID: externalID, IsActive: true}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) SetActive(string, bool) error { return nil }

func (m *mockUserService) DeleteUser(string) error { return nil }

func (m *mockUserService) ListActiveUsers() ([]models.User, error) { return nil, nil }

func missingUser() *mockUserService {
	return &mockUserService{
		getUserByExternalIDFn: func(string) (*models.User, error) {
			return nil, apperrors.ErrUserNotFound
		},
	}
}

// --- mock analytics service ---

type mockAnalyticsService struct {
	sumByCategoryFn  func(userID string, kind models.CategoryType, from, to time.Time) ([]services.CategoryTotal, error)
	monthlySummaryFn func(userID string, year int, month time.Month) (*services.MonthlySummary, error)
}

func (m *mockAnalyticsService) SumByCategory(userID string, kind models.CategoryType, from, to time.Time) ([]services.CategoryTotal, error) {
	if m.sumByCategoryFn != nil {
		return m.sumByCategoryFn(userID, kind, from, to)
	}
	return nil, nil
}

func (m *mockAnalyticsService) TopExpenseCategories(string, time.Time, time.Time, int) ([]services.CategoryTotal, error) {
	return nil, nil
}

func (m *mockAnalyticsService) MonthlySummary(userID string, year int, month time.Month) (*services.MonthlySummary, error) {
	if m.monthlySummaryFn != nil {
		return m.monthlySummaryFn(userID, year, month)
	}
	return &services.MonthlySummary{Year: year, Month: month}, nil
}

func (m *mockAnalyticsService) WeeklySummary(string, time.Time) (*services.WeeklySummary, error) {
	return &services.WeeklySummary{}, nil
}

// --- mock budget service ---

type mockBudgetService struct {
	getBudgetStatusFn  func(userID string) ([]services.BudgetStatus, error)
	getBudgetAlertsFn  func(userID string) ([]services.BudgetAlert, error)
	deactivateBudgetFn func(userID, budgetID string) error
}

func (m *mockBudgetService) CreateBudget(services.CreateBudgetInput) (*models.Budget, error) {
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(string) ([]models.Budget, error) { return nil, nil }

func (m *mockBudgetService) DeactivateBudget(userID, budgetID string) error {
	if m.deactivateBudgetFn != nil {
		return m.deactivateBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetStatus(userID string) ([]services.BudgetStatus, error) {
	if m.getBudgetStatusFn != nil {
		return m.getBudgetStatusFn(userID)
	}
	return nil, nil
}

func (m *mockBudgetService) GetBudgetAlerts(userID string) ([]services.BudgetAlert, error) {
	if m.getBudgetAlertsFn != nil {
		return m.getBudgetAlertsFn(userID)
	}
	return nil, nil
}

// --- mock transaction service ---

type mockTransactionService struct {
	getUserTransactionsFn func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	listTransactionsFn    func(userID string, filter services.TransactionFilter) ([]models.Transaction, error)
	getTransactionByIDFn  func(userID, transactionID string) (*models.Transaction, error)
}

func (m *mockTransactionService) RecordTransaction(services.RecordTransactionInput) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) CreateTransaction(*gorm.DB, string, string, models.CategoryType, money.Amount, *string, time.Time) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	page.Defaults()
	result := pagination.NewPageResponse[models.Transaction](nil, page.Page, page.PageSize, 0)
	return &result, nil
}

func (m *mockTransactionService) GetRecentTransactions(string, int) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) ListTransactions(userID string, filter services.TransactionFilter) ([]models.Transaction, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(userID, filter)
	}
	return nil, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{Base: models.Base{ID: transactionID}, UserID: userID}, nil
}

// --- mock report service ---

type mockReportService struct {
	getUserReportsFn func(userID string, kind *models.ReportType, limit int) ([]models.Report, error)
	getReportByIDFn  func(userID, reportID string) (*models.Report, error)
}

func (m *mockReportService) GenerateMonthlyReport(string, int, time.Month) (*models.Report, *services.MonthlySummary, error) {
	return &models.Report{}, &services.MonthlySummary{}, nil
}

func (m *mockReportService) GenerateWeeklyReport(string, time.Time) (*models.Report, *services.WeeklySummary, error) {
	return &models.Report{}, &services.WeeklySummary{}, nil
}

func (m *mockReportService) GenerateCategoryReport(string, time.Time) (*services.CategoryReport, error) {
	return &services.CategoryReport{}, nil
}

func (m *mockReportService) GetUserReports(userID string, kind *models.ReportType, limit int) ([]models.Report, error) {
	if m.getUserReportsFn != nil {
		return m.getUserReportsFn(userID, kind, limit)
	}
	return nil, nil
}

func (m *mockReportService) GetReportByID(userID, reportID string) (*models.Report, error) {
	if m.getReportByIDFn != nil {
		return m.getReportByIDFn(userID, reportID)
	}
	return &models.Report{Base: models.Base{ID: reportID}, UserID: userID}, nil
}

// --- mock dispatcher ---

type mockDispatcher struct {
	dispatchFn func(ev dialog.Event) []dialog.Reply
}

func (m *mockDispatcher) Dispatch(ev dialog.Event) []dialog.Reply {
	if m.dispatchFn != nil {
		return m.dispatchFn(ev)
	}
	return nil
}

// --- helpers ---

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
