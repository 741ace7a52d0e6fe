package dialog

import (
	"time"

	apperrors "ledgerbot/internal/errors"
)

// PeriodBounds returns the budget window selected by a period token, computed
// from now in loc. A month runs from the 1st at 00:00:00 to its last day at
// 23:59:59.
func PeriodBounds(token string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	now = now.In(loc)
	var start time.Time
	switch token {
	case TokenPeriodCurrent:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	case TokenPeriodNext:
		// time.Date normalizes month 13 to January of the next year.
		start = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, loc)
	case TokenPeriodCustom:
		return time.Time{}, time.Time{}, apperrors.ErrUnsupportedPeriod
	default:
		return time.Time{}, time.Time{}, apperrors.ErrInvalidPeriod
	}
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}
