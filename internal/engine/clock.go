package engine

import "sync/atomic"

// Clock is the monotonic logical clock that stamps accepted operations.
//
// Seq values are strictly increasing and never derived from wall time, so
// the journal order is the apply order.
//
// Thread-safety: Clock is safe for concurrent use. The Engine still only
// advances it while holding its apply lock, which keeps seq order equal to
// graph mutation order.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock positioned at start.
// The next call to Next returns start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued seq without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// Reset repositions the clock. Only used when a session starts.
func (c *Clock) Reset(start int64) {
	c.seq.Store(start)
}
