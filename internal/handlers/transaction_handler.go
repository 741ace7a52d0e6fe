package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/export"
	"ledgerbot/internal/logger"
	"ledgerbot/internal/models"
	"ledgerbot/internal/pagination"
	"ledgerbot/internal/services"
)

// TransactionHandler serves transaction history.
type TransactionHandler struct {
	userService        services.UserServicer
	transactionService services.TransactionServicer
	loc                *time.Location
	now                func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(userService services.UserServicer, transactionService services.TransactionServicer, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{userService: userService, transactionService: transactionService, loc: loc, now: time.Now}
}

// TransactionQuery holds the optional filters of a history request.
type TransactionQuery struct {
	Type       string `form:"type" binding:"omitempty,entry_kind"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	DateRangeQuery
}

func (h *TransactionHandler) filter(q TransactionQuery) (services.TransactionFilter, error) {
	from, to, err := dateRange(q.DateRangeQuery, h.loc)
	if err != nil {
		return services.TransactionFilter{}, err
	}
	f := services.TransactionFilter{FromDate: from, ToDate: to}
	if q.Type != "" {
		kind := models.CategoryType(q.Type)
		f.Type = &kind
	}
	if q.CategoryID != "" {
		f.CategoryID = &q.CategoryID
	}
	return f, nil
}

// GetTransaction handles GET /users/:external_id/transactions/:id
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    ApiKeyAuth
// @Param       external_id path string true "External account id"
// @Param       id          path string true "Transaction id"
// @Success     200 {object} models.Transaction
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /users/{external_id}/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(user.ID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// ListTransactions handles GET /users/:external_id/transactions
// @Summary     List transactions
// @Description Paginated history, newest first
// @Tags        transactions
// @Produce     json
// @Security    ApiKeyAuth
// @Param       external_id path  string true  "External account id"
// @Param       page        query int    false "Page number"
// @Param       page_size   query int    false "Items per page (max 100)"
// @Param       type        query string false "income or expense"
// @Param       category_id query string false "Category id"
// @Param       from        query string false "Inclusive lower bound"
// @Param       to          query string false "Inclusive upper bound"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{external_id}/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	var q TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	filter, err := h.filter(q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(user.ID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportTransactions handles GET /users/:external_id/transactions/export
// @Summary     Export transactions
// @Description Every matching transaction as an XLSX workbook, oldest first
// @Tags        transactions
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    ApiKeyAuth
// @Param       external_id path  string true  "External account id"
// @Param       type        query string false "income or expense"
// @Param       from        query string false "Inclusive lower bound"
// @Param       to          query string false "Inclusive upper bound"
// @Success     200 {file}   file
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{external_id}/transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	filter, err := h.filter(q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.ListTransactions(user.ID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	f, err := export.Transactions(transactions, h.loc)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer f.Close()

	c.Header("Content-Type", export.ContentTypeXLSX)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		h.now().In(h.loc).Format("20060102")))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logger.Get().Errorw("failed to write export", "error", err, "user_id", user.ID)
	}
}
