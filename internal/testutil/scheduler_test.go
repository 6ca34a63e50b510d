package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() (*ManualClock, *ManualScheduler) {
	clock := NewManualClock(time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC))
	return clock, NewManualScheduler(clock)
}

func TestManualSchedulerFiresInDueOrder(t *testing.T) {
	_, s := newTestScheduler()
	var fired []string

	s.Schedule(3*time.Second, func() { fired = append(fired, "c") })
	s.Schedule(1*time.Second, func() { fired = append(fired, "a") })
	s.Schedule(2*time.Second, func() { fired = append(fired, "b") })

	s.Advance(5 * time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, fired)
}

func TestManualSchedulerTiesBreakBySchedulingOrder(t *testing.T) {
	_, s := newTestScheduler()
	var fired []string

	s.Schedule(time.Second, func() { fired = append(fired, "first") })
	s.Schedule(time.Second, func() { fired = append(fired, "second") })

	s.Advance(time.Second)

	assert.Equal(t, []string{"first", "second"}, fired)
}

func TestManualSchedulerSetsClockToDueTime(t *testing.T) {
	clock, s := newTestScheduler()
	start := clock.Now()
	var seen time.Time

	s.Schedule(3*time.Second, func() { seen = clock.Now() })

	s.Advance(10 * time.Second)

	assert.Equal(t, start.Add(3*time.Second), seen,
		"callback observes its scheduled time, not the deadline")
	assert.Equal(t, start.Add(10*time.Second), clock.Now(),
		"clock lands on the deadline afterwards")
}

func TestManualSchedulerCancel(t *testing.T) {
	_, s := newTestScheduler()
	fired := false

	h := s.Schedule(time.Second, func() { fired = true })
	require.Equal(t, 1, s.Pending())

	h.Cancel()
	h.Cancel() // idempotent
	assert.Zero(t, s.Pending())

	s.Advance(5 * time.Second)
	assert.False(t, fired)
}

func TestManualSchedulerReentrantScheduling(t *testing.T) {
	_, s := newTestScheduler()
	var fired []string

	s.Schedule(time.Second, func() {
		fired = append(fired, "outer")
		s.Schedule(time.Second, func() { fired = append(fired, "inner") })
	})

	s.Advance(3 * time.Second)

	assert.Equal(t, []string{"outer", "inner"}, fired,
		"timer scheduled by a callback fires within the same advance")
}

func TestManualSchedulerReentrantBeyondDeadline(t *testing.T) {
	_, s := newTestScheduler()
	var fired []string

	s.Schedule(time.Second, func() {
		fired = append(fired, "outer")
		s.Schedule(time.Minute, func() { fired = append(fired, "inner") })
	})

	s.Advance(3 * time.Second)

	assert.Equal(t, []string{"outer"}, fired)
	assert.Equal(t, 1, s.Pending(), "not-yet-due timer survives the advance")
}
