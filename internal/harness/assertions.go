package harness

import (
	"fmt"
	"math"

	"github.com/roach88/barista/internal/game"
)

// sloEpsilon tolerates float rounding in the measured-SLO check.
const sloEpsilon = 1e-9

// checkExpect compares the final state against the scenario's Expect
// clause. Subset match: only specified fields are validated.
func checkExpect(sc *Scenario, res *Result) []string {
	if sc.Expect == nil {
		return nil
	}
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	if want := sc.Expect.Outcome; want != "" {
		got := "playing"
		if res.Summary != nil {
			got = res.Summary.OutcomeName
		}
		if got != want {
			fail("outcome: got %s, want %s", got, want)
		}
	}
	if want := sc.Expect.Score; want != nil && res.Final.Score != *want {
		fail("score: got %d, want %d", res.Final.Score, *want)
	}
	if want := sc.Expect.TotalOrders; want != nil && res.Final.TotalOrders != *want {
		fail("total_orders: got %d, want %d", res.Final.TotalOrders, *want)
	}
	if want := sc.Expect.SuccessfulOrders; want != nil && res.Final.SuccessfulOrders != *want {
		fail("successful_orders: got %d, want %d", res.Final.SuccessfulOrders, *want)
	}
	if want := sc.Expect.FailedOrders; want != nil && res.Final.FailedOrders != *want {
		fail("failed_orders: got %d, want %d", res.Final.FailedOrders, *want)
	}
	if want := sc.Expect.BudgetRemaining; want != nil && res.Final.BudgetRemaining != *want {
		fail("budget_remaining: got %d, want %d", res.Final.BudgetRemaining, *want)
	}
	return failures
}

// CheckInvariants validates the engine's quantitative invariants over
// a sequence of HUD snapshots, independent of what the scenario
// expected:
//
//   - totalOrders == successfulOrders + failedOrders + activeOrders
//   - budgetRemaining is non-increasing and never negative
//   - a zero-budget target is never decremented (remains zero)
//   - measured SLO is 1.0 before any order resolves, and equals
//     successful/total once every spawned order has resolved
//   - phase only moves forward
func CheckInvariants(target game.SLOTarget, snaps []game.Snapshot) []string {
	var failures []string
	fail := func(i int, format string, args ...any) {
		failures = append(failures, fmt.Sprintf("snapshot %d: %s", i, fmt.Sprintf(format, args...)))
	}

	prevBudget := target.ErrorBudget
	prevPhase := game.PhaseSLOSelection

	for i, s := range snaps {
		// Orders still in flight at session end are discarded
		// unresolved, so the identity only binds while playing.
		if s.Phase != game.PhaseGameOver &&
			s.TotalOrders != s.SuccessfulOrders+s.FailedOrders+s.ActiveOrders {
			fail(i, "order totals: %d != %d success + %d failed + %d active",
				s.TotalOrders, s.SuccessfulOrders, s.FailedOrders, s.ActiveOrders)
		}

		if s.BudgetRemaining < 0 {
			fail(i, "budget went negative: %d", s.BudgetRemaining)
		}
		if s.BudgetRemaining > prevBudget {
			fail(i, "budget increased: %d -> %d", prevBudget, s.BudgetRemaining)
		}
		if target.ErrorBudget == 0 && s.BudgetRemaining != 0 {
			fail(i, "zero-budget target shows budget %d", s.BudgetRemaining)
		}
		prevBudget = s.BudgetRemaining

		resolved := s.SuccessfulOrders + s.FailedOrders
		switch {
		case resolved == 0:
			if s.MeasuredSLO != 1.0 {
				fail(i, "measured SLO before first resolution: got %v, want 1.0", s.MeasuredSLO)
			}
		case resolved == s.TotalOrders && s.TotalOrders > 0:
			want := float64(s.SuccessfulOrders) / float64(s.TotalOrders)
			if math.Abs(s.MeasuredSLO-want) > sloEpsilon {
				fail(i, "measured SLO: got %v, want %v", s.MeasuredSLO, want)
			}
		}

		if s.Phase < prevPhase {
			fail(i, "phase moved backwards: %s -> %s", prevPhase, s.Phase)
		}
		prevPhase = s.Phase
	}

	// Post-game-over freeze: once a snapshot reports game over, every
	// later snapshot must carry identical counters and score.
	frozen := -1
	for i, s := range snaps {
		if s.Phase == game.PhaseGameOver {
			frozen = i
			break
		}
	}
	if frozen >= 0 {
		ref := snaps[frozen]
		for i := frozen + 1; i < len(snaps); i++ {
			s := snaps[i]
			if s.Score != ref.Score || s.TotalOrders != ref.TotalOrders ||
				s.BudgetRemaining != ref.BudgetRemaining {
				fail(i, "state mutated after game over")
			}
		}
	}

	return failures
}
