package engine

import "sync/atomic"

// LogicalClock stamps trace events. Implemented by Clock and by
// testutil.DeterministicClock.
type LogicalClock interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock. Every trace event gets a strictly
// increasing seq from Next; wall-clock time is never used for ordering.
//
// Safe for concurrent use, though the engine only calls it from the
// goroutine driving it.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock positioned at start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last seq handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
