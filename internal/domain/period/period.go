// Package period implements the budget period calendar: mapping a period kind
// and a reference instant to the canonical window that contains it.
package period

import (
	"time"

	domainerror "github.com/budgetwise/backend/internal/domain/error"
)

// Type represents a recurring budget window.
type Type string

const (
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
	TypeYearly  Type = "yearly"
)

// MillisPerWeek is the length of a budget week in milliseconds. Weekly
// rollover is measured in elapsed wall-clock weeks, not calendar weeks.
const MillisPerWeek = 7 * 24 * time.Hour / time.Millisecond

// fallback is the period used when an unrecognized kind reaches a
// calculation. Historically unknown kinds were silently treated as daily;
// changing this constant (or making normalize return an error) is the single
// place a strict mode would plug in.
const fallback = TypeDaily

// normalize maps an unrecognized period kind onto the fallback period.
func normalize(p Type) Type {
	switch p {
	case TypeDaily, TypeWeekly, TypeMonthly, TypeYearly:
		return p
	default:
		return fallback
	}
}

// Parse validates a period string strictly. Unlike the calculation functions
// below it rejects unknown kinds, so API boundaries can refuse bad input
// while stored data keeps its lenient semantics.
func Parse(s string) (Type, error) {
	p := Type(s)
	switch p {
	case TypeDaily, TypeWeekly, TypeMonthly, TypeYearly:
		return p, nil
	default:
		return "", domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetPeriod,
			"budget period must be 'daily', 'weekly', 'monthly' or 'yearly'",
			domainerror.ErrInvalidBudgetPeriod,
		)
	}
}

// Start returns the canonical start of the period containing now.
// The week begins on Sunday; months and years start on their first day.
func Start(p Type, now time.Time) time.Time {
	loc := now.Location()

	switch normalize(p) {
	case TypeWeekly:
		// Most recent Sunday at midnight.
		return time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, loc)
	case TypeMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	case TypeYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	}
}

// End returns the last instant (millisecond precision) of the period that
// begins at start. An unrecognized kind gets the daily window.
func End(p Type, start time.Time) time.Time {
	switch p {
	case TypeWeekly:
		return start.AddDate(0, 0, 7).Add(-time.Millisecond)
	case TypeMonthly:
		return start.AddDate(0, 1, 0).Add(-time.Millisecond)
	case TypeYearly:
		return start.AddDate(1, 0, 0).Add(-time.Millisecond)
	default:
		return start.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
}

// Bounds returns the canonical window containing now.
func Bounds(p Type, now time.Time) (start, end time.Time) {
	start = Start(p, now)
	return start, End(p, start)
}

// ShouldReset reports whether a budget whose current window began at start
// has rolled into a new period as of now.
//
// Daily compares calendar days, monthly compares month+year and yearly
// compares years. Weekly deliberately does NOT align to calendar weeks: it
// floors the elapsed milliseconds to whole weeks, so a budget created on a
// Monday resets the following Monday, exactly 7*24h later.
func ShouldReset(p Type, start, now time.Time) bool {
	switch normalize(p) {
	case TypeWeekly:
		return elapsedWeeks(start, now) >= 1
	case TypeMonthly:
		return now.Month() != start.Month() || now.Year() != start.Year()
	case TypeYearly:
		return now.Year() != start.Year()
	default:
		y1, m1, d1 := start.Date()
		y2, m2, d2 := now.Date()
		return y1 != y2 || m1 != m2 || d1 != d2
	}
}

// elapsedWeeks returns the number of whole weeks between start and now,
// floored. Negative elapsed time floors to zero or below and never resets.
func elapsedWeeks(start, now time.Time) int64 {
	elapsedMillis := now.Sub(start) / time.Millisecond
	return int64(elapsedMillis / MillisPerWeek)
}
