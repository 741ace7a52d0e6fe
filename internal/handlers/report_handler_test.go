package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/models"
)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	r.GET("/users/:external_id/reports", handler.ListReports)
	r.GET("/users/:external_id/reports/:id", handler.GetReport)
	return r
}

func TestReportHandler_ListReports(t *testing.T) {
	t.Run("passes type and limit", func(t *testing.T) {
		var gotKind *models.ReportType
		var gotLimit int
		svc := &mockReportService{
			getUserReportsFn: func(_ string, kind *models.ReportType, limit int) ([]models.Report, error) {
				gotKind, gotLimit = kind, limit
				return []models.Report{{Name: "Monthly report 2024-03", Type: models.ReportTypeMonthly}}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(&mockUserService{}, svc))

		rec := doRequest(r, http.MethodGet, "/users/42/reports?type=monthly&limit=5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotKind == nil || *gotKind != models.ReportTypeMonthly || gotLimit != 5 {
			t.Errorf("unexpected arguments: %v %d", gotKind, gotLimit)
		}
		reports := parseJSON(t, rec)["reports"].([]interface{})
		if len(reports) != 1 {
			t.Fatalf("expected 1 report, got %d", len(reports))
		}
	})

	t.Run("lists every kind without a filter", func(t *testing.T) {
		var gotKind *models.ReportType
		svc := &mockReportService{
			getUserReportsFn: func(_ string, kind *models.ReportType, _ int) ([]models.Report, error) {
				gotKind = kind
				return nil, nil
			},
		}
		r := setupReportRouter(NewReportHandler(&mockUserService{}, svc))

		rec := doRequest(r, http.MethodGet, "/users/42/reports", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotKind != nil {
			t.Errorf("expected no kind filter, got %v", *gotKind)
		}
		if reports, ok := parseJSON(t, rec)["reports"].([]interface{}); !ok || len(reports) != 0 {
			t.Errorf("expected empty array")
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockUserService{}, &mockReportService{}))
		rec := doRequest(r, http.MethodGet, "/users/42/reports?type=yearly", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestReportHandler_GetReport(t *testing.T) {
	t.Run("includes the stored payload", func(t *testing.T) {
		svc := &mockReportService{
			getReportByIDFn: func(userID, reportID string) (*models.Report, error) {
				return &models.Report{
					Base:   models.Base{ID: reportID},
					UserID: userID,
					Name:   "Weekly report",
					Type:   models.ReportTypeWeekly,
					Data:   `{"total_income":"10.00","transaction_count":3}`,
				}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(&mockUserService{}, svc))

		rec := doRequest(r, http.MethodGet, "/users/42/reports/r-1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		report := parseJSON(t, rec)["report"].(map[string]interface{})
		if report["id"] != "r-1" || report["type"] != "weekly" {
			t.Errorf("unexpected report: %v", report)
		}
		data, ok := report["data"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected decoded data object, got %v", report["data"])
		}
		if data["transaction_count"] != float64(3) {
			t.Errorf("unexpected payload: %v", data)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockReportService{
			getReportByIDFn: func(string, string) (*models.Report, error) {
				return nil, apperrors.ErrReportNotFound
			},
		}
		r := setupReportRouter(NewReportHandler(&mockUserService{}, svc))

		rec := doRequest(r, http.MethodGet, "/users/42/reports/nope", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REPORT_NOT_FOUND")
	})
}
