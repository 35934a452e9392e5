package utils

import "time"

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

// TimeSlotLayout is the wire format for time-of-day slot fields.
const TimeSlotLayout = "15:04"

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysUntil returns the number of whole days from now until t, never
// negative. Partial days round up so that "expires tomorrow" counts as 1.
func DaysUntil(now, t time.Time) int {
	if !t.After(now) {
		return 0
	}
	d := t.Sub(now)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// ParseDate parses a date-only string in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
