package tradedate

import (
	"fmt"
	"time"
)

// Clock supplies the current civil date.
type Clock interface {
	Now() time.Time
	Today() Date
}

// FixedOffsetClock reports time in a fixed UTC offset with no daylight
// saving.
type FixedOffsetClock struct {
	loc *time.Location
	now func() time.Time
}

// NewFixedOffsetClock returns a clock for UTC+hours backed by time.Now.
func NewFixedOffsetClock(hours int) *FixedOffsetClock {
	return &FixedOffsetClock{
		loc: time.FixedZone(fmt.Sprintf("GMT%+d", hours), hours*3600),
		now: time.Now,
	}
}

// WithNow replaces the time source, for tests.
func (c *FixedOffsetClock) WithNow(now func() time.Time) *FixedOffsetClock {
	c.now = now
	return c
}

// Now returns the current instant in the clock's offset.
func (c *FixedOffsetClock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current civil date in the clock's offset.
func (c *FixedOffsetClock) Today() Date {
	return FromTime(c.Now())
}

// Zone returns the clock's zone name, e.g. "GMT+7".
func (c *FixedOffsetClock) Zone() string {
	return c.loc.String()
}

// FixedClock always reports the same date. Useful in tests.
type FixedClock struct {
	Date Date
}

// Now returns midnight UTC of the fixed date.
func (c FixedClock) Now() time.Time { return c.Date.Time() }

// Today returns the fixed date.
func (c FixedClock) Today() Date { return c.Date }
