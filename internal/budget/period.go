package budget

import "time"

// Period determines the date range a budget covers.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}

	return false
}

// Range returns the half-open [start, end) interval of the period containing
// the anchor instant. Weeks start on Monday.
func (p Period) Range(anchor time.Time) (time.Time, time.Time) {
	anchor = anchor.UTC()

	switch p {
	case PeriodWeekly:
		offset := (int(anchor.Weekday()) + 6) % 7 // days since Monday
		start := time.Date(anchor.Year(), anchor.Month(), anchor.Day()-offset, 0, 0, 0, 0, time.UTC)

		return start, start.AddDate(0, 0, 7)
	case PeriodYearly:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

		return start, start.AddDate(1, 0, 0)
	default: // monthly
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)

		return start, start.AddDate(0, 1, 0)
	}
}
