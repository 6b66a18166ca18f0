package dateutil

import "time"

// BeginningOfDay normalizes t to midnight in its own location. Day-boundary
// arithmetic always goes through this so partial-day drift cannot change a
// day count.
func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// DaysBetween returns the number of whole days from a to b, both normalized
// to midnight first. It is negative if b is before a.
func DaysBetween(a, b time.Time) int {
	return int(BeginningOfDay(b).Sub(BeginningOfDay(a)) / (24 * time.Hour))
}

func BeginningOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func NextMonth(t time.Time) time.Time {
	return BeginningOfMonth(t).AddDate(0, 1, 0)
}

func LastMonth(t time.Time) time.Time {
	return BeginningOfMonth(t).AddDate(0, -1, 0)
}

// MonthsBetween counts whole calendar months from a to b, zero if b is in
// the same or an earlier month.
func MonthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months < 0 {
		return 0
	}

	return months
}
