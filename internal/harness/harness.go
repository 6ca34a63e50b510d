// Package harness provides a conformance testing framework for the
// barista game engine.
//
// Scenarios are YAML timelines executed against the real engine on a
// manual clock and scheduler, so every run is fully deterministic: the
// same scenario produces a byte-identical trace. Traces can be compared
// against golden files, and every run is checked against the engine's
// quantitative invariants (order totals, budget monotonicity, SLO
// arithmetic, post-game-over freeze) independent of the scenario's own
// expectations.
package harness

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/barista/internal/game"
	"github.com/roach88/barista/internal/testutil"
)

// sessionEpoch anchors every scenario run at the same instant so trace
// timestamps are stable.
var sessionEpoch = time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)

// Harness executes scenarios against a fixed rule set.
type Harness struct {
	rules *game.Rules
	log   *slog.Logger
}

// New creates a harness. A nil logger falls back to slog.Default().
func New(rules *game.Rules, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.Default()
	}
	return &Harness{rules: rules, log: logger}
}

// Result captures everything observable from one scenario run.
type Result struct {
	Scenario *Scenario

	// Trace is the ordered presentation-effect record.
	Trace []TraceEvent

	// Snapshots is every HUD update, in order.
	Snapshots []game.Snapshot

	// Final is the session state after the last step.
	Final game.Snapshot

	// Summary is non-nil if the session reached game over.
	Summary *game.Summary

	// Failures lists expectation and invariant violations. Empty means
	// the scenario passed.
	Failures []string
}

// Passed reports whether the run had no failures.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Run executes a scenario and evaluates its expectations plus the
// engine invariants. An error means the scenario could not run at all
// (unknown SLO target, bad ordinal); failures are reported in the
// Result instead.
func (h *Harness) Run(sc *Scenario) (*Result, error) {
	target, ok := h.rules.TargetByName(sc.SLO)
	if !ok {
		return nil, fmt.Errorf("scenario %s: unknown SLO target %q", sc.Name, sc.SLO)
	}

	clock := testutil.NewManualClock(sessionEpoch)
	sched := testutil.NewManualScheduler(clock)
	rec := newRecorder(clock, sessionEpoch)

	eng := game.New(h.rules, rec, sched,
		game.WithClock(clock),
		game.WithIDGenerator(testutil.NewFixedOrderIDs()),
		game.WithLogger(h.log),
		game.WithSeed(1),
	)

	eng.Start(target)

	for i, st := range sc.Steps {
		switch {
		case st.Advance > 0:
			sched.Advance(time.Duration(st.Advance) * time.Millisecond)
		case st.Complete > 0:
			id, ok := rec.orderID(st.Complete)
			if !ok {
				return nil, fmt.Errorf("scenario %s step %d: order ordinal %d never spawned",
					sc.Name, i, st.Complete)
			}
			// A false return here is the expected no-op when the
			// scenario races a completion against an expiry.
			eng.CompleteOrder(id)
		}
	}

	res := &Result{
		Scenario:  sc,
		Trace:     rec.trace,
		Snapshots: rec.snapshots,
		Final:     eng.Snapshot(),
		Summary:   rec.summary,
	}
	res.Failures = append(res.Failures, checkExpect(sc, res)...)
	res.Failures = append(res.Failures, CheckInvariants(target, rec.snapshots)...)
	return res, nil
}
