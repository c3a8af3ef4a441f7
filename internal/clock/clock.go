package clock

import (
	"math"
	"time"
)

// Clock abstracts the wall clock so intake timestamps and expiry alerts are testable.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock always returns the time it was last set to.
type FakeClock struct {
	current time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

func (c *FakeClock) Now() time.Time {
	return c.current
}

func (c *FakeClock) Set(t time.Time) {
	c.current = t
}

// Advance moves the fake time forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Date truncates t to midnight in its own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil counts calendar days from today to target. Negative when target is past.
func DaysUntil(today, target time.Time) int {
	from := Date(today)
	to := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, from.Location())
	return int(math.Round(to.Sub(from).Hours() / 24))
}
