package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	assert.NoError(t, err)
	return d
}

func TestIsTradingDayWeekend(t *testing.T) {
	cal := GetCalendar("AAPL")

	assert.False(t, cal.IsTradingDay(mustDate(t, "2024-06-22"))) // Saturday
	assert.False(t, cal.IsTradingDay(mustDate(t, "2024-06-23"))) // Sunday
	assert.True(t, cal.IsTradingDay(mustDate(t, "2024-06-24")))  // Monday
}

func TestCountTradingDays(t *testing.T) {
	cal := GetCalendar("AAPL")

	// Mon 2024-06-24 through Fri 2024-06-28, end exclusive
	count := cal.CountTradingDays(mustDate(t, "2024-06-24"), mustDate(t, "2024-06-29"))
	assert.Equal(t, 5, count)

	// Weekend only
	assert.Zero(t, cal.CountTradingDays(mustDate(t, "2024-06-22"), mustDate(t, "2024-06-24")))

	// Inverted range
	assert.Zero(t, cal.CountTradingDays(mustDate(t, "2024-06-28"), mustDate(t, "2024-06-24")))
}

func TestGetCalendarSuffixMapping(t *testing.T) {
	// London-suffixed symbol resolves to a usable calendar
	cal := GetCalendar("VOD.L")
	assert.NotNil(t, cal)
	assert.True(t, cal.IsTradingDay(mustDate(t, "2024-06-24")))
}
