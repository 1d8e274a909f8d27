package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPeriod(t *testing.T) {
	for _, period := range []string{"today", "week", "month", "year", "all"} {
		assert.True(t, IsValidPeriod(period), period)
	}
	for _, period := range []string{"", "hour", "Today", "quarter"} {
		assert.False(t, IsValidPeriod(period), period)
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name     string
		period   string
		expected time.Time
	}{
		{
			name:     "today is local midnight",
			period:   PeriodToday,
			expected: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "week is a rolling 7 days, not calendar-aligned",
			period:   PeriodWeek,
			expected: time.Date(2025, time.June, 8, 14, 30, 45, 0, time.UTC),
		},
		{
			name:     "month is the first of the current month",
			period:   PeriodMonth,
			expected: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year is january first",
			period:   PeriodYear,
			expected: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "all is the epoch",
			period:   PeriodAll,
			expected: time.Unix(0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := PeriodStart(tt.period, now)
			require.NoError(t, err)
			assert.True(t, start.Equal(tt.expected), "got %v, want %v", start, tt.expected)
		})
	}

	_, err := PeriodStart("fortnight", now)
	assert.Error(t, err)
}

func TestPreviousWindow(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	start := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	prevStart, prevEnd := PreviousWindow(start, now)

	// Equal duration, ending exactly where the current window begins.
	assert.True(t, prevEnd.Equal(start))
	assert.Equal(t, now.Sub(start), prevEnd.Sub(prevStart))
	assert.True(t, prevStart.Equal(time.Date(2025, time.June, 14, 12, 0, 0, 0, time.UTC)))
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		name     string
		current  uint64
		previous uint64
		expected string
	}{
		{name: "no baseline reports 0%", current: 0, previous: 0, expected: "0%"},
		{name: "growth from zero still reports 0%", current: 42, previous: 0, expected: "0%"},
		{name: "increase", current: 150, previous: 100, expected: "+50.0%"},
		{name: "decrease", current: 75, previous: 100, expected: "-25.0%"},
		{name: "flat with baseline", current: 100, previous: 100, expected: "+0.0%"},
		{name: "rounded to one decimal", current: 1, previous: 3, expected: "-66.7%"},
		{name: "total drop", current: 0, previous: 8, expected: "-100.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatChange(tt.current, tt.previous))
		})
	}
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2025-06-15", DayKey(time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)))
}
