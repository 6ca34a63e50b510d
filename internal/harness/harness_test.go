package harness

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/barista/internal/game"
)

// testRules is the fixed rule set the testdata scenarios are written
// against: one level, a single-type pool so order picks are identical
// regardless of seed, a 3-second lifetime, and a 1-second lead-in.
func testRules() *game.Rules {
	return &game.Rules{
		Targets: []game.SLOTarget{
			{Name: "100%", Value: 1.0, ErrorBudget: 0},
			{Name: "99.9%", Value: 0.999, ErrorBudget: 10},
		},
		Catalog: map[string][]game.OrderType{
			"simple": {{Name: "Regular Coffee", Icon: "☕", Time: 2 * time.Second}},
		},
		Levels: []game.Level{{
			Number:     1,
			Name:       "Opening Shift",
			Complexity: "simple",
			SpawnDelay: 4 * time.Second,
			Duration:   10 * time.Second,
		}},
		Settings: game.Settings{
			OrderLifetime: 3 * time.Second,
			LevelLeadIn:   time.Second,
		},
	}
}

func newTestHarness() *Harness {
	return New(testRules(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunScenarioFiles(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	h := newTestHarness()
	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			res, err := h.Run(sc)
			require.NoError(t, err)
			assert.True(t, res.Passed(), "failures: %v", res.Failures)
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/win_with_one_miss.yaml")
	require.NoError(t, err)

	h := newTestHarness()
	first, err := h.Run(sc)
	require.NoError(t, err)
	second, err := h.Run(sc)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, first.Final, second.Final)
}

func TestRunUnknownTarget(t *testing.T) {
	h := newTestHarness()
	_, err := h.Run(&Scenario{
		Name:  "bad_target",
		SLO:   "42%",
		Steps: []Step{{Advance: 1000}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown SLO target")
}

func TestRunUnknownOrdinal(t *testing.T) {
	h := newTestHarness()
	_, err := h.Run(&Scenario{
		Name:  "bad_ordinal",
		SLO:   "99.9%",
		Steps: []Step{{Complete: 7}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never spawned")
}

func TestRunReportsExpectationFailures(t *testing.T) {
	wrongScore := 999
	h := newTestHarness()
	res, err := h.Run(&Scenario{
		Name:   "wrong_expectation",
		SLO:    "99.9%",
		Steps:  []Step{{Advance: 2000}},
		Expect: &Expect{Outcome: "won", Score: &wrongScore},
	})
	require.NoError(t, err)

	assert.False(t, res.Passed())
	assert.Len(t, res.Failures, 2)
}
