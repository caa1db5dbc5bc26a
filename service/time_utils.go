package service

import (
	"time"

	"wordler/models"
)

// Clock supplies the current instant and the reference timezone that
// defines calendar days. Tests replace Now.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewClock returns a wall clock for loc
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Location: loc, Now: time.Now}
}

// Today returns the current calendar day in the reference timezone
func (c Clock) Today() time.Time {
	return models.CalendarDay(c.now(), c.Location)
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
