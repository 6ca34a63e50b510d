package game

import "time"

// RealScheduler is the production Scheduler backed by time.AfterFunc.
// Callbacks fire on timer goroutines; the engine serializes them on its
// own mutex.
type RealScheduler struct{}

// Schedule implements Scheduler.
func (RealScheduler) Schedule(delay time.Duration, fn func()) TimerHandle {
	return realTimer{t: time.AfterFunc(delay, fn)}
}

type realTimer struct {
	t *time.Timer
}

// Cancel implements TimerHandle. time.Timer.Stop is already a no-op on
// a fired or stopped timer, which gives us idempotence for free.
func (r realTimer) Cancel() { r.t.Stop() }
