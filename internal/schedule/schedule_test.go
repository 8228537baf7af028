package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextInvoiceDateMonthlyOffset(t *testing.T) {
	today := date(2024, time.June, 1)
	start := date(2024, time.January, 15) // in the past

	next := NextInvoiceDate(start, "monthly", today)

	// flat 30-day offset: 2024-06-01 + 30d = 2024-07-01
	assert.Equal(t, date(2024, time.July, 1), next)
}

func TestNextInvoiceDateNotCalendarAware(t *testing.T) {
	// Known drift of the fixed-offset scheme: 30 days from Jan 1 lands
	// on Jan 31, not Feb 1.
	today := date(2024, time.January, 1)

	next := NextInvoiceDate(date(2023, time.December, 1), "monthly", today)

	assert.Equal(t, date(2024, time.January, 31), next)
}

func TestNextInvoiceDateFutureStartUnchanged(t *testing.T) {
	today := date(2024, time.June, 1)
	start := date(2024, time.August, 10)

	next := NextInvoiceDate(start, "weekly", today)

	assert.Equal(t, start, next)
}

func TestNextInvoiceDateAllFrequencies(t *testing.T) {
	today := date(2024, time.March, 10)
	cases := map[string]time.Time{
		"weekly":     date(2024, time.March, 17),
		"biweekly":   date(2024, time.March, 24),
		"monthly":    date(2024, time.April, 9),
		"bimonthly":  date(2024, time.May, 9),
		"quarterly":  date(2024, time.June, 8),
		"semiannual": date(2024, time.September, 6),
		"annual":     date(2025, time.March, 10),
	}

	for freq, want := range cases {
		got := NextInvoiceDate(date(2024, time.January, 1), freq, today)
		assert.Equal(t, want, got, "frequency %s", freq)
	}
}

func TestNextInvoiceDateUnknownFrequencyDefaults(t *testing.T) {
	today := date(2024, time.June, 1)

	next := NextInvoiceDate(date(2024, time.January, 1), "fortnightly-ish", today)

	assert.Equal(t, today.AddDate(0, 0, 30), next)
}

func TestIsDueBoundaries(t *testing.T) {
	today := date(2024, time.June, 1)

	assert.True(t, IsDue(true, today, nil, today), "next date == today is due")
	assert.False(t, IsDue(true, today.AddDate(0, 0, 1), nil, today), "tomorrow is not due")
	assert.True(t, IsDue(true, today.AddDate(0, 0, -10), nil, today), "past next date is due")
}

func TestIsDueInactive(t *testing.T) {
	today := date(2024, time.June, 1)

	assert.False(t, IsDue(false, today.AddDate(0, 0, -1), nil, today))
}

func TestIsDueEndDateCutoff(t *testing.T) {
	today := date(2024, time.June, 1)
	past := date(2024, time.May, 1)

	// end_date in the past wins over an overdue next date
	assert.False(t, IsDue(true, past, &past, today))

	// end_date == today is still within the window
	end := today
	assert.True(t, IsDue(true, past, &end, today))
}

func TestIsDueIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2024, time.June, 1, 23, 45, 0, 0, time.UTC)
	next := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

	assert.True(t, IsDue(true, next, nil, today))
}
