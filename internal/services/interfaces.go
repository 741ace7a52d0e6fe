package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
	"ledgerbot/internal/pagination"
)

// UserServicer defines the contract for user resolution and lifecycle.
type UserServicer interface {
	ResolveUser(tx *gorm.DB, externalID string, profile models.Profile) (*models.User, bool, error)
	GetUserByExternalID(externalID string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	SetActive(userID string, active bool) error
	DeleteUser(userID string) error
	ListActiveUsers() ([]models.User, error)
}

// CategoryServicer defines the contract for category resolution and lookup.
type CategoryServicer interface {
	ResolveCategory(tx *gorm.DB, userID, name string, kind models.CategoryType) (*models.Category, error)
	GetUserCategoriesByType(userID string, kind models.CategoryType) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.CategoryType
	CategoryID *string
}

// RecordTransactionInput is the complete draft of a guided transaction entry.
type RecordTransactionInput struct {
	ExternalID   string
	Profile      models.Profile
	Kind         models.CategoryType
	CategoryName string
	Amount       money.Amount
	Description  *string
	OccurredAt   time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	RecordTransaction(in RecordTransactionInput) (*models.Transaction, error)
	CreateTransaction(tx *gorm.DB, userID, categoryID string, kind models.CategoryType, amount money.Amount, description *string, occurredAt time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetRecentTransactions(userID string, limit int) ([]models.Transaction, error)
	ListTransactions(userID string, filter TransactionFilter) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
}

// CreateBudgetInput is the complete draft of a guided budget entry.
type CreateBudgetInput struct {
	ExternalID   string
	Profile      models.Profile
	Name         string
	Amount       money.Amount
	CategoryName string
	StartDate    time.Time
	EndDate      *time.Time
}

// BudgetStatus is a budget together with its recomputed consumption.
type BudgetStatus struct {
	Budget       models.Budget   `json:"budget"`
	CategoryName string          `json:"category_name"`
	Limit        money.Amount    `json:"limit"`
	Spent        money.Amount    `json:"spent"`
	Remaining    money.Amount    `json:"remaining"`
	Exceeded     bool            `json:"exceeded"`
	Percent      decimal.Decimal `json:"percent"`
}

// AlertLevel classifies a budget alert.
type AlertLevel string

const (
	AlertExceeded  AlertLevel = "exceeded"
	AlertNearLimit AlertLevel = "near_limit"
)

// BudgetAlert is raised for a budget that is over or close to its limit.
type BudgetAlert struct {
	Level   AlertLevel   `json:"level"`
	Status  BudgetStatus `json:"status"`
	Message string       `json:"message"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(in CreateBudgetInput) (*models.Budget, error)
	GetUserBudgets(userID string) ([]models.Budget, error)
	DeactivateBudget(userID, budgetID string) error
	GetBudgetStatus(userID string) ([]BudgetStatus, error)
	GetBudgetAlerts(userID string) ([]BudgetAlert, error)
}

// CategoryTotal is one row of a grouped-by-category sum.
type CategoryTotal struct {
	CategoryID string       `json:"category_id"`
	Name       string       `json:"name"`
	Total      money.Amount `json:"total"`
	Count      int64        `json:"count"`
}

// MonthlySummary aggregates one calendar month, end-exclusive.
type MonthlySummary struct {
	Year                 int             `json:"year"`
	Month                time.Month      `json:"month"`
	Start                time.Time       `json:"start"`
	End                  time.Time       `json:"end"`
	TotalIncome          money.Amount    `json:"total_income"`
	TotalExpenses        money.Amount    `json:"total_expenses"`
	Balance              money.Amount    `json:"balance"`
	TransactionCount     int64           `json:"transaction_count"`
	TopExpenseCategories []CategoryTotal `json:"top_expense_categories"`
}

// DailyStat holds the totals of a single day.
type DailyStat struct {
	Date    string       `json:"date"`
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
	Count   int          `json:"count"`
}

// WeeklySummary aggregates the seven days ending at End.
type WeeklySummary struct {
	Start            time.Time    `json:"start"`
	End              time.Time    `json:"end"`
	Days             []DailyStat  `json:"days"`
	TotalIncome      money.Amount `json:"total_income"`
	TotalExpenses    money.Amount `json:"total_expenses"`
	Balance          money.Amount `json:"balance"`
	TransactionCount int64        `json:"transaction_count"`
}

// CategoryReport lists current-period totals by category for both kinds.
type CategoryReport struct {
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Income  []CategoryTotal `json:"income"`
	Expense []CategoryTotal `json:"expense"`
}

// AnalyticsServicer defines the contract for read-only aggregation queries.
type AnalyticsServicer interface {
	SumByCategory(userID string, kind models.CategoryType, from, to time.Time) ([]CategoryTotal, error)
	TopExpenseCategories(userID string, from, to time.Time, limit int) ([]CategoryTotal, error)
	MonthlySummary(userID string, year int, month time.Month) (*MonthlySummary, error)
	WeeklySummary(userID string, now time.Time) (*WeeklySummary, error)
}

// ReportServicer defines the contract for generating and reading reports.
type ReportServicer interface {
	GenerateMonthlyReport(userID string, year int, month time.Month) (*models.Report, *MonthlySummary, error)
	GenerateWeeklyReport(userID string, now time.Time) (*models.Report, *WeeklySummary, error)
	GenerateCategoryReport(userID string, now time.Time) (*CategoryReport, error)
	GetUserReports(userID string, kind *models.ReportType, limit int) ([]models.Report, error)
	GetReportByID(userID, reportID string) (*models.Report, error)
}

// ChatServicer defines the contract for chat link bookkeeping.
type ChatServicer interface {
	RecordActivity(userID, conversationID string, at time.Time) error
	GetLink(userID string) (*models.ChatLink, error)
	SetNotifications(userID string, enabled bool) error
	ListNotifiable() ([]models.ChatLink, error)
}
