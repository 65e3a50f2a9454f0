package period

import (
	"fmt"
	"time"
)

// Cadence is the quota reset period for a gated feature.
type Cadence string

// Supported cadences.
const (
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
	None    Cadence = "none" // never quota-gated
)

// IsValid reports whether the cadence is one of the known values.
func (c Cadence) IsValid() bool {
	switch c {
	case Daily, Weekly, Monthly, None:
		return true
	}
	return false
}

// Gated reports whether the cadence produces counting windows.
func (c Cadence) Gated() bool {
	return c == Daily || c == Weekly || c == Monthly
}

// Key returns the identifier of the counting window containing now:
// "YYYY-MM-DD" for daily, "YYYY-MM" for monthly, and "YYYY-Www-DD" for
// weekly, where the year and week follow ISO-8601 (weeks start on Monday)
// and DD is the two-digit day-of-week position with Monday as 01.
//
// The key only namespaces usage counters in an external store; this
// package neither reads nor writes counters.
func Key(c Cadence, now time.Time) (string, error) {
	now = now.UTC()
	switch c {
	case Daily:
		return now.Format("2006-01-02"), nil
	case Weekly:
		year, week := now.ISOWeek()
		return fmt.Sprintf("%04d-W%02d-%02d", year, week, isoWeekday(now)), nil
	case Monthly:
		return now.Format("2006-01"), nil
	case None:
		return "", ErrNotGated
	default:
		return "", ErrInvalidCadence
	}
}

// ResetAt returns the UTC instant at which the counting window containing
// now ends: the next UTC midnight for daily, midnight of the next Monday
// strictly after now for weekly, and midnight of the first day of the next
// calendar month for monthly.
//
// An instant exactly on a window boundary belongs to the new window, so
// evaluating at Monday 00:00:00 UTC with a weekly cadence resets on the
// following Monday.
func ResetAt(c Cadence, now time.Time) (time.Time, error) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch c {
	case Daily:
		return midnight.AddDate(0, 0, 1), nil
	case Weekly:
		return midnight.AddDate(0, 0, 8-isoWeekday(now)), nil
	case Monthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0), nil
	case None:
		return time.Time{}, ErrNotGated
	default:
		return time.Time{}, ErrInvalidCadence
	}
}

// isoWeekday maps time.Weekday (Sunday=0) to the ISO-8601 position (Monday=1).
func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}
