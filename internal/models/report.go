package models

import "time"

// ReportType is the kind of a generated report.
type ReportType string

const (
	ReportTypeMonthly ReportType = "monthly"
	ReportTypeWeekly  ReportType = "weekly"
	ReportTypeCustom  ReportType = "custom"
)

// Valid reports whether t is a known report kind.
func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeMonthly, ReportTypeWeekly, ReportTypeCustom:
		return true
	}
	return false
}

// Report is a write-once snapshot of an aggregation result. Data holds the
// JSON-encoded summary.
type Report struct {
	Base
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Type      ReportType `gorm:"size:16;not null" json:"type"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   time.Time  `gorm:"not null" json:"end_date"`
	Data      string     `gorm:"type:text" json:"-"`
}
