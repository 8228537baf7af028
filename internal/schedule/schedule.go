// Package schedule computes due dates for recurring invoices. All
// functions take "today" as a parameter; nothing here reads the clock,
// which keeps date math reproducible in tests.
package schedule

import "time"

// Interval day offsets per frequency. These are fixed-day
// approximations, not calendar-month arithmetic: "monthly" is always
// 30 days, so it drifts against calendar months over time.
var intervals = map[string]int{
	"weekly":     7,
	"biweekly":   14,
	"monthly":    30,
	"bimonthly":  60,
	"quarterly":  90,
	"semiannual": 180,
	"annual":     365,
}

// OffsetDays returns the day offset for a frequency, defaulting to 30
// for unknown values.
func OffsetDays(frequency string) int {
	if d, ok := intervals[frequency]; ok {
		return d
	}
	return 30
}

// DateOnly truncates a timestamp to midnight UTC. Schedule comparisons
// are date-granular; times of day must never affect due-ness.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextInvoiceDate computes the next occurrence for a template. A
// fromDate strictly in the future is returned unchanged (the template
// is not yet due; this arm is only reached at creation time).
// Otherwise the next occurrence is today plus the frequency offset.
func NextInvoiceDate(fromDate time.Time, frequency string, today time.Time) time.Time {
	from := DateOnly(fromDate)
	now := DateOnly(today)
	if from.After(now) {
		return from
	}
	return now.AddDate(0, 0, OffsetDays(frequency))
}

// IsDue reports whether an active template has reached its next
// invoice date without passing its optional end date. A template whose
// next date equals today is due; one whose end date has passed is
// never due, regardless of the next date.
func IsDue(isActive bool, nextInvoiceDate time.Time, endDate *time.Time, today time.Time) bool {
	if !isActive {
		return false
	}
	now := DateOnly(today)
	if DateOnly(nextInvoiceDate).After(now) {
		return false
	}
	if endDate != nil && now.After(DateOnly(*endDate)) {
		return false
	}
	return true
}
