// Package app wires the services, the dialog machine and the chat router
// for a database connection, so every entry point builds the same graph.
package app

import (
	"gorm.io/gorm"

	"ledgerbot/internal/bot"
	"ledgerbot/internal/config"
	"ledgerbot/internal/dialog"
	"ledgerbot/internal/format"
	"ledgerbot/internal/services"
)

// App is the assembled application core.
type App struct {
	Users        *services.UserService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Analytics    *services.AnalyticsService
	Reports      *services.ReportService
	Chats        *services.ChatService

	Formatter *format.Formatter
	Sessions  *dialog.Store
	Machine   *dialog.Machine
	Router    *bot.Router
}

// New builds the application core on db using cfg.
func New(db *gorm.DB, cfg *config.Config) *App {
	users := services.NewUserService(db)
	categories := services.NewCategoryService(db)
	transactions := services.NewTransactionService(db, users, categories)
	budgets := services.NewBudgetService(db, users, categories, cfg.NearLimitThreshold)
	analytics := services.NewAnalyticsService(db, cfg.Location)
	reports := services.NewReportService(db, analytics, cfg.Location)
	chats := services.NewChatService(db)

	f := format.New(cfg.Currency, cfg.Location)
	store := dialog.NewStore()
	machine := dialog.NewMachine(store, dialog.Deps{
		Users:        users,
		Categories:   categories,
		Transactions: transactions,
		Budgets:      budgets,
	}, f, dialog.Config{
		MaxAmount: cfg.MaxAmount,
		Location:  cfg.Location,
	})
	router := bot.NewRouter(machine, bot.Services{
		Users:        users,
		Transactions: transactions,
		Budgets:      budgets,
		Analytics:    analytics,
		Reports:      reports,
		Chats:        chats,
	}, f, cfg.Location)

	return &App{
		Users:        users,
		Categories:   categories,
		Transactions: transactions,
		Budgets:      budgets,
		Analytics:    analytics,
		Reports:      reports,
		Chats:        chats,
		Formatter:    f,
		Sessions:     store,
		Machine:      machine,
		Router:       router,
	}
}
