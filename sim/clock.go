package sim

import "sync/atomic"

// Clock is a manually advanced millisecond clock.
type Clock struct {
	now atomic.Uint32
}

// NewClock returns a clock reading start.
func NewClock(start uint32) *Clock {
	c := &Clock{}
	c.now.Store(start)
	return c
}

// Millis implements core.Clock.
func (c *Clock) Millis() uint32 {
	return c.now.Load()
}

// Set jumps to ms.
func (c *Clock) Set(ms uint32) {
	c.now.Store(ms)
}

// Advance moves the clock forward by ms.
func (c *Clock) Advance(ms uint32) {
	c.now.Add(ms)
}
