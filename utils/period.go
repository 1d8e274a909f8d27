package utils

import (
	"fmt"
	"time"
)

// Reporting periods. Each maps to a concrete window start; "all" has no
// lower bound.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

func IsValidPeriod(period string) bool {
	switch period {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return true
	default:
		return false
	}
}

// PeriodStart resolves a period name to its window start relative to now.
// "today", "month" and "year" are calendar-aligned in now's location;
// "week" is a rolling 7-day window, not a calendar week.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), nil
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodAll:
		return time.Unix(0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("invalid period: %s", period)
	}
}

// PreviousWindow derives the comparison window immediately preceding
// [start, now): same duration, ending exactly at start.
func PreviousWindow(start, now time.Time) (time.Time, time.Time) {
	return start.Add(-now.Sub(start)), start
}

// FormatChange renders a period-over-period percentage change with an
// explicit sign and one decimal, e.g. "+12.5%". When previous is zero
// there is no baseline and the change is reported as "0%".
func FormatChange(current, previous uint64) string {
	if previous == 0 {
		return "0%"
	}
	change := (float64(current) - float64(previous)) / float64(previous) * 100
	return fmt.Sprintf("%+.1f%%", change)
}

// DayKey formats a timestamp as the calendar-day bucket key used by the
// daily series.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
