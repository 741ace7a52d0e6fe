package services

import (
	"testing"

	"ledgerbot/internal/models"
	"ledgerbot/internal/testutil"
)

func TestResolveCategory(t *testing.T) {
	t.Run("creates_with_exact_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.ResolveCategory(nil, user.ID, "  Groceries ", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)

		if cat.Name != "Groceries" {
			t.Errorf("expected trimmed name Groceries, got %q", cat.Name)
		}
		if cat.Type != models.CategoryTypeExpense || !cat.IsActive {
			t.Errorf("unexpected category: %+v", cat)
		}
	})

	t.Run("idempotent_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.ResolveCategory(nil, user.ID, "Groceries", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)
		second, err := svc.ResolveCategory(nil, user.ID, "GROCERIES", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)
		third, err := svc.ResolveCategory(nil, user.ID, "groceries", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)

		if first.ID != second.ID || first.ID != third.ID {
			t.Errorf("expected one category, got %s, %s, %s", first.ID, second.ID, third.ID)
		}
		if second.Name != "Groceries" {
			t.Errorf("original spelling must be kept, got %q", second.Name)
		}
		if n := testutil.Count(t, db, &models.Category{}, "user_id = ?", user.ID); n != 1 {
			t.Errorf("expected one category row, got %d", n)
		}
	})

	t.Run("kind_is_part_of_identity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.ResolveCategory(nil, user.ID, "Other", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)
		income, err := svc.ResolveCategory(nil, user.ID, "Other", models.CategoryTypeIncome)
		testutil.AssertNoError(t, err)

		if expense.ID == income.ID {
			t.Error("categories of different kinds must be distinct")
		}
	})

	t.Run("users_are_isolated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)

		a, err := svc.ResolveCategory(nil, alice.ID, "Rent", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)
		b, err := svc.ResolveCategory(nil, bob.ID, "Rent", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)

		if a.ID == b.ID {
			t.Error("each user must get their own category")
		}
	})

	t.Run("invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ResolveCategory(nil, user.ID, " ", models.CategoryTypeExpense)
		testutil.AssertAppError(t, err, "INVALID_NAME")

		_, err = svc.ResolveCategory(nil, user.ID, "Food", models.CategoryType("transfer"))
		testutil.AssertAppError(t, err, "INVALID_KIND")
	})
}

func TestGetUserCategoriesByType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestCategoryNamed(t, db, user.ID, models.CategoryTypeExpense, "Transport")
	testutil.CreateTestCategoryNamed(t, db, user.ID, models.CategoryTypeExpense, "Food")
	testutil.CreateTestCategoryNamed(t, db, user.ID, models.CategoryTypeIncome, "Salary")
	disabled := testutil.CreateTestCategoryNamed(t, db, user.ID, models.CategoryTypeExpense, "Old")
	db.Model(disabled).Update("is_active", false)

	cats, err := svc.GetUserCategoriesByType(user.ID, models.CategoryTypeExpense)
	testutil.AssertNoError(t, err)

	if len(cats) != 2 {
		t.Fatalf("expected 2 active expense categories, got %d", len(cats))
	}
	if cats[0].Name != "Food" || cats[1].Name != "Transport" {
		t.Errorf("expected categories ordered by name, got %s, %s", cats[0].Name, cats[1].Name)
	}
}

func TestDeleteCategory(t *testing.T) {
	t.Run("cascades", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestTransaction(t, db, cat, 1500, jan(3))
		testutil.CreateTestBudget(t, db, cat, 10000, jan(1), nil)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

		if n := testutil.Count(t, db, &models.Transaction{}, "category_id = ?", cat.ID); n != 0 {
			t.Errorf("expected transactions to be deleted, got %d", n)
		}
		if n := testutil.Count(t, db, &models.Budget{}, "category_id = ?", cat.ID); n != 0 {
			t.Errorf("expected budgets to be deleted, got %d", n)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID, models.CategoryTypeExpense)

		err := svc.DeleteCategory(intruder.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
