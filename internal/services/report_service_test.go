package services

import (
	"testing"
	"time"

	"github.com/goccy/go-json"

	"ledgerbot/internal/models"
	"ledgerbot/internal/testutil"
)

func TestGenerateMonthlyReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewReportService(db, NewAnalyticsService(db, time.UTC), time.UTC)
	user := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategoryNamed(t, db, user.ID, models.CategoryTypeExpense, "Food")
	testutil.CreateTestTransaction(t, db, food, 12345, jan(15))

	report, summary, err := svc.GenerateMonthlyReport(user.ID, 2024, time.January)
	testutil.AssertNoError(t, err)

	if report.Type != models.ReportTypeMonthly || report.Name != "Monthly report 2024-01" {
		t.Errorf("unexpected report: %s %s", report.Type, report.Name)
	}
	if !report.StartDate.Equal(jan(1)) || !report.EndDate.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected window %s - %s", report.StartDate, report.EndDate)
	}
	testutil.AssertAmount(t, summary.TotalExpenses, 12345)

	stored, err := svc.GetReportByID(user.ID, report.ID)
	testutil.AssertNoError(t, err)

	var decoded MonthlySummary
	if err := json.Unmarshal([]byte(stored.Data), &decoded); err != nil {
		t.Fatalf("payload must be valid JSON: %v", err)
	}
	testutil.AssertAmount(t, decoded.TotalExpenses, 12345)
	if len(decoded.TopExpenseCategories) != 1 || decoded.TopExpenseCategories[0].Name != "Food" {
		t.Errorf("unexpected decoded categories: %+v", decoded.TopExpenseCategories)
	}
}

func TestGenerateMonthlyReport_InvalidMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewReportService(db, NewAnalyticsService(db, time.UTC), time.UTC)
	user := testutil.CreateTestUser(t, db)

	_, _, err := svc.GenerateMonthlyReport(user.ID, 2024, time.Month(13))
	testutil.AssertAppError(t, err, "INVALID_REPORT_PERIOD")
}

func TestGenerateWeeklyReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewReportService(db, NewAnalyticsService(db, time.UTC), time.UTC)
	user := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	testutil.CreateTestTransaction(t, db, food, 700, jan(12))

	report, summary, err := svc.GenerateWeeklyReport(user.ID, time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC))
	testutil.AssertNoError(t, err)

	if report.Name != "Weekly report 2024-01-08 to 2024-01-14" {
		t.Errorf("unexpected name %q", report.Name)
	}
	testutil.AssertAmount(t, summary.TotalExpenses, 700)
}

func TestGenerateCategoryReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewReportService(db, NewAnalyticsService(db, time.UTC), time.UTC)
	user := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	salary := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	testutil.CreateTestTransaction(t, db, food, 100, jan(3))
	testutil.CreateTestTransaction(t, db, salary, 900, jan(31))
	testutil.CreateTestTransaction(t, db, food, 5000, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	report, err := svc.GenerateCategoryReport(user.ID, jan(20))
	testutil.AssertNoError(t, err)

	if len(report.Expense) != 1 || report.Expense[0].Total != 100 {
		t.Errorf("unexpected expense totals: %+v", report.Expense)
	}
	if len(report.Income) != 1 || report.Income[0].Total != 900 {
		t.Errorf("unexpected income totals: %+v", report.Income)
	}
	if n := testutil.Count(t, db, &models.Report{}); n != 0 {
		t.Errorf("category report must not be persisted, got %d rows", n)
	}
}

func TestGetUserReports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewReportService(db, NewAnalyticsService(db, time.UTC), time.UTC)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	_, _, err := svc.GenerateMonthlyReport(user.ID, 2024, time.January)
	testutil.AssertNoError(t, err)
	_, _, err = svc.GenerateWeeklyReport(user.ID, jan(20))
	testutil.AssertNoError(t, err)
	_, _, err = svc.GenerateMonthlyReport(other.ID, 2024, time.January)
	testutil.AssertNoError(t, err)

	all, err := svc.GetUserReports(user.ID, nil, 0)
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Errorf("expected 2 reports, got %d", len(all))
	}

	monthly := models.ReportTypeMonthly
	onlyMonthly, err := svc.GetUserReports(user.ID, &monthly, 5)
	testutil.AssertNoError(t, err)
	if len(onlyMonthly) != 1 || onlyMonthly[0].Type != models.ReportTypeMonthly {
		t.Errorf("expected one monthly report, got %+v", onlyMonthly)
	}

	_, err = svc.GetReportByID(other.ID, all[0].ID)
	testutil.AssertAppError(t, err, "REPORT_NOT_FOUND")
}
