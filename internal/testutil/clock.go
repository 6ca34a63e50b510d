// Package testutil provides deterministic clock, scheduler, and ID
// doubles for game engine tests. The same scenario run twice produces
// byte-identical traces.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a Clock whose time only moves when a test says so.
//
// Typically paired with ManualScheduler, which sets the clock to each
// timer's due time as it fires, so "now - startTime" arithmetic inside
// the engine sees exact values.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock frozen at the given start time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements game.Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t. Ignored if t is earlier than the current
// time; the clock is monotonic.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.After(c.now) {
		c.now = t
	}
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
