package utils

import (
	"fmt"
	"time"
)

const (
	// DateLayout matches the app's en-PH short date, e.g. "Mar 23, 2025".
	DateLayout = "Jan 2, 2006"
	// TimeLayout matches the app's 12-hour clock, e.g. "3:04 PM".
	TimeLayout = "3:04 PM"
)

// Clock formats wall-clock instants in the timezone the app writes its records in.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a Clock for the named IANA timezone backed by time.Now.
func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixedClock returns a Clock whose current instant comes from now.
func NewFixedClock(loc *time.Location, now func() time.Time) *Clock {
	return &Clock{loc: loc, now: now}
}

// Now returns the current instant in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current calendar date formatted with DateLayout.
func (c *Clock) Today() string {
	return c.FormatDate(c.Now())
}

// FormatDate formats t as a calendar date in the clock's location.
func (c *Clock) FormatDate(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// FormatTime formats t as a time of day in the clock's location.
func (c *Clock) FormatTime(t time.Time) string {
	return t.In(c.loc).Format(TimeLayout)
}
