// Package errors provides custom error types for ledgerbot.
// All service-layer errors should use AppError so that chat replies and HTTP
// responses stay consistent and never leak internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so wrapped
// copies of a sentinel still match it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Transport errors.
var (
	ErrUnauthorized  = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrNotConfigured = &AppError{Code: "NOT_CONFIGURED", Message: "Endpoint is not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Validation errors raised while collecting guided input.
var (
	ErrInvalidAmount       = &AppError{Code: "INVALID_AMOUNT", Message: "Invalid amount format", StatusCode: http.StatusBadRequest}
	ErrAmountNotPositive   = &AppError{Code: "AMOUNT_NOT_POSITIVE", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrAmountTooLarge      = &AppError{Code: "AMOUNT_TOO_LARGE", Message: "Amount is too large", StatusCode: http.StatusBadRequest}
	ErrInvalidName         = &AppError{Code: "INVALID_NAME", Message: "Name must be between 2 and 100 characters", StatusCode: http.StatusBadRequest}
	ErrDescriptionTooLong  = &AppError{Code: "DESCRIPTION_TOO_LONG", Message: "Description is too long", StatusCode: http.StatusBadRequest}
	ErrInvalidPeriod       = &AppError{Code: "INVALID_PERIOD", Message: "Budget period is invalid", StatusCode: http.StatusBadRequest}
	ErrUnsupportedPeriod   = &AppError{Code: "UNSUPPORTED_PERIOD", Message: "Custom periods are not supported yet", StatusCode: http.StatusBadRequest}
	ErrInvalidKind         = &AppError{Code: "INVALID_KIND", Message: "Kind must be income or expense", StatusCode: http.StatusBadRequest}
	ErrKindMismatch        = &AppError{Code: "KIND_MISMATCH", Message: "Transaction kind does not match its category", StatusCode: http.StatusBadRequest}
	ErrInvalidExternalID   = &AppError{Code: "INVALID_EXTERNAL_ID", Message: "External account id is required", StatusCode: http.StatusBadRequest}
	ErrInvalidReportPeriod = &AppError{Code: "INVALID_REPORT_PERIOD", Message: "Report period is invalid", StatusCode: http.StatusBadRequest}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
)

// Report errors.
var (
	ErrReportNotFound = &AppError{Code: "REPORT_NOT_FOUND", Message: "Report not found", StatusCode: http.StatusNotFound}
)
