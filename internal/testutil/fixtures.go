package testutil

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NextExternalID returns a fresh chat-platform account id.
func NextExternalID() string {
	return strconv.FormatInt(100000+nextID(), 10)
}

// CreateTestUser creates an active user with a unique external id.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithExternalID(t, db, NextExternalID())
}

// CreateTestUserWithExternalID creates a user with the given external id.
func CreateTestUserWithExternalID(t *testing.T, db *gorm.DB, externalID string) *models.User {
	t.Helper()

	user := &models.User{
		ExternalID: externalID,
		Username:   gofakeit.Username(),
		FirstName:  gofakeit.FirstName(),
		LastName:   gofakeit.LastName(),
		IsActive:   true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates an active category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, userID, categoryType, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryNamed creates an active category with an explicit name.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Name:     name,
		Type:     categoryType,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction in the given category. The kind
// is taken from the category.
func CreateTestTransaction(t *testing.T, db *gorm.DB, category *models.Category, amount money.Amount, occurredAt time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     category.UserID,
		CategoryID: category.ID,
		Type:       category.Type,
		Amount:     amount,
		OccurredAt: occurredAt.UTC(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active budget for the category over [start, end].
func CreateTestBudget(t *testing.T, db *gorm.DB, category *models.Category, amount money.Amount, start time.Time, end *time.Time) *models.Budget {
	t.Helper()

	var endUTC *time.Time
	if end != nil {
		e := end.UTC()
		endUTC = &e
	}
	budget := &models.Budget{
		UserID:     category.UserID,
		CategoryID: category.ID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		Amount:     amount,
		StartDate:  start.UTC(),
		EndDate:    endUTC,
		IsActive:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// Count returns the number of rows of model matching the optional condition.
func Count(t *testing.T, db *gorm.DB, model interface{}, query ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
