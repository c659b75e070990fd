package domain

import "time"

// Date returns the UTC midnight time for a calendar day. All dates in the
// panel are stored at day granularity in UTC; using a single constructor
// keeps (entity, date) keys comparable with ==.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return Date(y, m, d)
}
