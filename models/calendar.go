package models

import "time"

// DayFormat is the wire format of calendar days
const DayFormat = "2006-01-02"

// CalendarDay returns the date t falls on in loc, as midnight UTC of that
// date. Storing days this way keeps them comparable with Postgres DATE
// values and lets day arithmetic use AddDate without DST surprises.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a calendar day as YYYY-MM-DD
func FormatDay(day time.Time) string {
	return day.Format(DayFormat)
}

// IsNextDay reports whether day is the calendar day right after prev
func IsNextDay(prev, day time.Time) bool {
	return sameDay(prev.AddDate(0, 0, 1), day)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
