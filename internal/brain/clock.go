package brain

import "sync/atomic"

// Clock is a monotonic logical clock. Every enqueued activation is
// stamped with a strictly increasing seq number from the queue's clock,
// which is the tie-break among equal priorities: dispatch order is
// (priority asc, seq asc), so equal-priority work is FIFO in emit order.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
