// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ledgerbot/internal/dialog"
	"ledgerbot/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom tags on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("entry_kind", validateEntryKind)
	_ = v.RegisterValidation("event_type", validateEventType)
	_ = v.RegisterValidation("report_kind", validateReportKind)
}

func validateEntryKind(fl validator.FieldLevel) bool {
	return models.CategoryType(fl.Field().String()).Valid()
}

func validateEventType(fl validator.FieldLevel) bool {
	return dialog.EventType(fl.Field().String()).Valid()
}

func validateReportKind(fl validator.FieldLevel) bool {
	return models.ReportType(fl.Field().String()).Valid()
}
