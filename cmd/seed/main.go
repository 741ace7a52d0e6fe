// Command seed fills the configured database with demo users, transactions
// and budgets so the bot and the read API have something to show.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"ledgerbot/internal/app"
	"ledgerbot/internal/config"
	"ledgerbot/internal/database"
	"ledgerbot/internal/logger"
	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
	"ledgerbot/internal/services"
)

var (
	expenseCategories = []string{"Food", "Transport", "Rent", "Entertainment", "Health", "Utilities"}
	incomeCategories  = []string{"Salary", "Freelance", "Gifts"}
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	users := flag.Int("users", 3, "number of demo users")
	perUser := flag.Int("transactions", 40, "transactions per user")
	seed := flag.Int64("seed", 0, "random seed, 0 for a random one")
	flag.Parse()

	if err := run(*users, *perUser, *seed); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run(users, perUser int, seed int64) error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return err
	}
	defer dbManager.Close()
	if err := dbManager.Migrate(); err != nil {
		return err
	}

	gofakeit.Seed(seed)
	a := app.New(dbManager.DB(), cfg)
	now := time.Now().In(cfg.Location)
	monthStart, _ := services.MonthBounds(now.Year(), now.Month(), cfg.Location)

	for i := 0; i < users; i++ {
		externalID := fmt.Sprintf("demo-%d", gofakeit.Number(100000, 999999))
		profile := models.Profile{
			Username:     gofakeit.Username(),
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
			LanguageCode: "en",
		}

		for j := 0; j < perUser; j++ {
			in := services.RecordTransactionInput{
				ExternalID: externalID,
				Profile:    profile,
				OccurredAt: gofakeit.DateRange(now.AddDate(0, -2, 0), now),
			}
			if gofakeit.Number(1, 5) == 1 {
				in.Kind = models.CategoryTypeIncome
				in.CategoryName = gofakeit.RandomString(incomeCategories)
				in.Amount = price(500, 5000)
			} else {
				in.Kind = models.CategoryTypeExpense
				in.CategoryName = gofakeit.RandomString(expenseCategories)
				in.Amount = price(1, 300)
			}
			if gofakeit.Bool() {
				note := gofakeit.Sentence(4)
				in.Description = &note
			}
			if _, err := a.Transactions.RecordTransaction(in); err != nil {
				return fmt.Errorf("failed to record transaction for %s: %w", externalID, err)
			}
		}

		category := gofakeit.RandomString(expenseCategories)
		if _, err := a.Budgets.CreateBudget(services.CreateBudgetInput{
			ExternalID:   externalID,
			Profile:      profile,
			Name:         category + " budget",
			Amount:       price(200, 1500),
			CategoryName: category,
			StartDate:    monthStart,
		}); err != nil {
			return fmt.Errorf("failed to create budget for %s: %w", externalID, err)
		}

		log.Infow("seeded user", "external_id", externalID, "name", profile.DisplayName(), "transactions", perUser)
	}
	return nil
}

func price(min, max float64) money.Amount {
	return money.FromDecimal(decimal.NewFromFloat(gofakeit.Price(min, max)))
}
