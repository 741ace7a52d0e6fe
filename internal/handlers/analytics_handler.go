package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerbot/internal/models"
	"ledgerbot/internal/services"
)

// AnalyticsHandler serves read-only aggregates for one user.
type AnalyticsHandler struct {
	userService      services.UserServicer
	analyticsService services.AnalyticsServicer
	loc              *time.Location
	now              func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler. Month defaults are taken in loc.
func NewAnalyticsHandler(userService services.UserServicer, analyticsService services.AnalyticsServicer, loc *time.Location) *AnalyticsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsHandler{userService: userService, analyticsService: analyticsService, loc: loc, now: time.Now}
}

// SummaryQuery selects a calendar month. Zero values mean the current month.
type SummaryQuery struct {
	Year  int `form:"year" binding:"omitempty,min=1970,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// GetSummary handles GET /users/:external_id/summary
// @Summary     Monthly summary
// @Description Income, expenses, balance and top expense categories of one calendar month
// @Tags        analytics
// @Produce     json
// @Security    ApiKeyAuth
// @Param       external_id path  string true  "External account id"
// @Param       year        query int    false "Year, defaults to the current year"
// @Param       month       query int    false "Month 1-12, defaults to the current month"
// @Success     200 {object} services.MonthlySummary
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{external_id}/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	now := h.now().In(h.loc)
	if q.Year == 0 {
		q.Year = now.Year()
	}
	if q.Month == 0 {
		q.Month = int(now.Month())
	}

	summary, err := h.analyticsService.MonthlySummary(user.ID, q.Year, time.Month(q.Month))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// CategoryTotalsQuery selects the kind and range of a category breakdown.
type CategoryTotalsQuery struct {
	Type models.CategoryType `form:"type" binding:"required,entry_kind"`
	DateRangeQuery
}

// GetCategoryTotals handles GET /users/:external_id/category-totals
// @Summary     Totals by category
// @Description Sum and count of one kind of transaction per category. Defaults to the current month.
// @Tags        analytics
// @Produce     json
// @Security    ApiKeyAuth
// @Param       external_id path  string true  "External account id"
// @Param       type        query string true  "income or expense"
// @Param       from        query string false "Inclusive lower bound"
// @Param       to          query string false "Inclusive upper bound"
// @Success     200 {array}  services.CategoryTotal
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{external_id}/category-totals [get]
func (h *AnalyticsHandler) GetCategoryTotals(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q CategoryTotalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	from, to, err := dateRange(q.DateRangeQuery, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := h.now().In(h.loc)
	start, next := services.MonthBounds(now.Year(), now.Month(), h.loc)
	if from == nil {
		from = &start
	}
	if to == nil {
		end := next.Add(-time.Nanosecond)
		to = &end
	}

	totals, err := h.analyticsService.SumByCategory(user.ID, q.Type, *from, *to)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if totals == nil {
		totals = []services.CategoryTotal{}
	}
	c.JSON(http.StatusOK, gin.H{"type": q.Type, "from": from, "to": to, "totals": totals})
}
