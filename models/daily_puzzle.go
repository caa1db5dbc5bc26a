package models

import "time"

// DailyPuzzle is the word assigned to one calendar day. Rows are append-only.
type DailyPuzzle struct {
	SequenceID  int64
	Word        string
	CalendarDay time.Time
	CreatedAt   time.Time
}
