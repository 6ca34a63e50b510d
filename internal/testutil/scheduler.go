package testutil

import (
	"sync"
	"time"

	"github.com/roach88/barista/internal/game"
)

// ManualScheduler is a deterministic game.Scheduler driven by explicit
// Advance calls instead of wall time.
//
// Timers are ordered by due time, ties broken by scheduling order, so a
// test run is fully reproducible. When Advance fires a timer, the
// attached ManualClock is first set to the timer's due time; callbacks
// therefore observe exactly the time they were scheduled for, the same
// way a punctual host would deliver them.
//
// Callbacks run outside the scheduler lock, so they may schedule or
// cancel further timers re-entrantly (the engine does both).
type ManualScheduler struct {
	mu      sync.Mutex
	clock   *ManualClock
	nextSeq int
	timers  []*manualTimer
}

type manualTimer struct {
	seq       int
	due       time.Time
	fn        func()
	cancelled bool
	owner     *ManualScheduler
}

// Cancel implements game.TimerHandle. Idempotent.
func (t *manualTimer) Cancel() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	t.cancelled = true
}

// NewManualScheduler creates a scheduler bound to the given clock.
func NewManualScheduler(clock *ManualClock) *ManualScheduler {
	return &ManualScheduler{clock: clock}
}

// Schedule implements game.Scheduler.
func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) game.TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	t := &manualTimer{
		seq:   s.nextSeq,
		due:   s.clock.Now().Add(delay),
		fn:    fn,
		owner: s,
	}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves time forward by d, firing every due timer in order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.AdvanceTo(s.clock.Now().Add(d))
}

// AdvanceTo moves time forward to deadline, firing every timer due at
// or before it in (due, seq) order. Timers scheduled by fired callbacks
// participate if they also fall within the deadline.
func (s *ManualScheduler) AdvanceTo(deadline time.Time) {
	for {
		t := s.popDue(deadline)
		if t == nil {
			break
		}
		s.clock.Set(t.due)
		t.fn()
	}
	s.clock.Set(deadline)
}

// Pending reports the number of scheduled, uncancelled timers.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// popDue removes and returns the earliest uncancelled timer due at or
// before deadline, or nil if none. Cancelled timers are swept as a side
// effect.
func (s *ManualScheduler) popDue(deadline time.Time) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.timers = live

	best := -1
	for i, t := range s.timers {
		if t.due.After(deadline) {
			continue
		}
		if best == -1 || t.due.Before(s.timers[best].due) ||
			(t.due.Equal(s.timers[best].due) && t.seq < s.timers[best].seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}

	t := s.timers[best]
	s.timers = append(s.timers[:best], s.timers[best+1:]...)
	return t
}
