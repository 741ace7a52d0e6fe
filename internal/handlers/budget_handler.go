package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerbot/internal/services"
)

// BudgetHandler serves budget status and alerts.
type BudgetHandler struct {
	userService   services.UserServicer
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(userService services.UserServicer, budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{userService: userService, budgetService: budgetService}
}

// GetStatus handles GET /users/:external_id/budgets
// @Summary     Budget status
// @Description Every active budget with its recomputed consumption
// @Tags        budgets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       external_id path string true "External account id"
// @Success     200 {array}  services.BudgetStatus
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{external_id}/budgets [get]
func (h *BudgetHandler) GetStatus(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	statuses, err := h.budgetService.GetBudgetStatus(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if statuses == nil {
		statuses = []services.BudgetStatus{}
	}
	c.JSON(http.StatusOK, gin.H{"budgets": statuses})
}

// GetAlerts handles GET /users/:external_id/budgets/alerts
// @Summary     Budget alerts
// @Description Budgets that are exceeded or close to their limit
// @Tags        budgets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       external_id path string true "External account id"
// @Success     200 {array}  services.BudgetAlert
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{external_id}/budgets/alerts [get]
func (h *BudgetHandler) GetAlerts(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.budgetService.GetBudgetAlerts(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if alerts == nil {
		alerts = []services.BudgetAlert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// DeactivateBudget handles DELETE /users/:external_id/budgets/:id
// @Summary     Deactivate a budget
// @Tags        budgets
// @Security    ApiKeyAuth
// @Param       external_id path string true "External account id"
// @Param       id          path string true "Budget id"
// @Success     204
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /users/{external_id}/budgets/{id} [delete]
func (h *BudgetHandler) DeactivateBudget(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeactivateBudget(user.ID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
