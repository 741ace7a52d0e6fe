package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"ledgerbot/internal/models"
	"ledgerbot/internal/services"
)

// ReportHandler serves stored reports.
type ReportHandler struct {
	userService   services.UserServicer
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(userService services.UserServicer, reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{userService: userService, reportService: reportService}
}

// ReportListQuery filters the report history.
type ReportListQuery struct {
	Type  string `form:"type" binding:"omitempty,report_kind"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ReportResponse is a stored report together with its decoded payload.
type ReportResponse struct {
	models.Report
	Data json.RawMessage `json:"data"`
}

// ListReports handles GET /users/:external_id/reports
// @Summary     Report history
// @Description Stored reports, newest first
// @Tags        reports
// @Produce     json
// @Security    ApiKeyAuth
// @Param       external_id path  string true  "External account id"
// @Param       type        query string false "monthly, weekly or custom"
// @Param       limit       query int    false "Maximum number of reports"
// @Success     200 {array}  models.Report
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{external_id}/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ReportListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	var kind *models.ReportType
	if q.Type != "" {
		t := models.ReportType(q.Type)
		kind = &t
	}

	reports, err := h.reportService.GetUserReports(user.ID, kind, q.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// GetReport handles GET /users/:external_id/reports/:id
// @Summary     Get a report
// @Tags        reports
// @Produce     json
// @Security    ApiKeyAuth
// @Param       external_id path string true "External account id"
// @Param       id          path string true "Report id"
// @Success     200 {object} ReportResponse
// @Failure     404 {object} ErrorResponse "Report not found"
// @Router      /users/{external_id}/reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	user, err := userFromPath(c, h.userService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetReportByID(user.ID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := json.RawMessage("null")
	if report.Data != "" {
		data = json.RawMessage(report.Data)
	}
	c.JSON(http.StatusOK, gin.H{"report": &ReportResponse{Report: *report, Data: data}})
}
