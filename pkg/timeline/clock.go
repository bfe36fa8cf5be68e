package timeline

import "time"

// Clock is the time source a Timeline reads once per Step.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Tests and headless tools drive the
// timeline with it so every frame lands on a known instant.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

func (c *ManualClock) Set(t time.Time) { c.now = t }

func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
