package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/logger"
	"ledgerbot/internal/models"
	"ledgerbot/internal/services"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DateRangeQuery holds optional from/to query bounds, as RFC 3339 timestamps or YYYY-MM-DD dates.
type DateRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// userFromPath resolves the :external_id path parameter to an existing user.
// Read endpoints never create users.
func userFromPath(c *gin.Context, users services.UserServicer) (*models.User, error) {
	externalID := c.Param("external_id")
	if externalID == "" {
		return nil, apperrors.ErrInvalidExternalID
	}
	return users.GetUserByExternalID(externalID)
}

// parseBound parses a query date. A bare date used as an upper bound covers the whole day.
func parseBound(raw string, upper bool, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "dates must be RFC 3339 or YYYY-MM-DD: "+raw)
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// dateRange parses q into bounds, rejecting a range that ends before it starts.
func dateRange(q DateRangeQuery, loc *time.Location) (from, to *time.Time, err error) {
	if from, err = parseBound(q.From, false, loc); err != nil {
		return nil, nil, err
	}
	if to, err = parseBound(q.To, true, loc); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must not be before from")
	}
	return from, to, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// invalidInput wraps a binding failure.
func invalidInput(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}
