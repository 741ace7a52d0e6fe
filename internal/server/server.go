// Package server builds the HTTP API: the chat event endpoint used by
// non-Telegram transports and the read-only per-user endpoints.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerbot/internal/app"
	"ledgerbot/internal/config"
	"ledgerbot/internal/handlers"
	"ledgerbot/internal/middleware"
)

// HealthPath answers liveness probes without authentication.
const HealthPath = "/api/health"

// NewRouter registers every route of the API on a new Gin engine.
func NewRouter(a *app.App, cfg *config.Config) *gin.Engine {
	chatHandler := handlers.NewChatHandler(a.Router)
	analyticsHandler := handlers.NewAnalyticsHandler(a.Users, a.Analytics, cfg.Location)
	budgetHandler := handlers.NewBudgetHandler(a.Users, a.Budgets)
	transactionHandler := handlers.NewTransactionHandler(a.Users, a.Transactions, cfg.Location)
	reportHandler := handlers.NewReportHandler(a.Users, a.Reports)

	router := gin.New()
	router.Use(middleware.RequestLogging(HealthPath))
	router.Use(middleware.Recovery())

	router.GET(HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(cfg.ChatAPIKey))

	v1.POST("/chat/events", chatHandler.HandleEvent)

	users := v1.Group("/users/:external_id")
	users.GET("/summary", analyticsHandler.GetSummary)
	users.GET("/category-totals", analyticsHandler.GetCategoryTotals)

	users.GET("/transactions", transactionHandler.ListTransactions)
	users.GET("/transactions/export", transactionHandler.ExportTransactions)
	users.GET("/transactions/:id", transactionHandler.GetTransaction)

	users.GET("/budgets", budgetHandler.GetStatus)
	users.GET("/budgets/alerts", budgetHandler.GetAlerts)
	users.DELETE("/budgets/:id", budgetHandler.DeactivateBudget)

	users.GET("/reports", reportHandler.ListReports)
	users.GET("/reports/:id", reportHandler.GetReport)

	return router
}
