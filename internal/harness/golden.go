package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the complete deterministic record of a
// scenario execution for golden file comparison.
type TraceSnapshot struct {
	Scenario string       `json:"scenario"`
	SLO      string       `json:"slo"`
	Trace    []TraceEvent `json:"trace"`
	Final    FinalState   `json:"final"`
}

// FinalState is the session state at the end of the run, flattened for
// stable serialization.
type FinalState struct {
	Phase            string  `json:"phase"`
	Outcome          string  `json:"outcome"`
	Score            int     `json:"score"`
	TotalOrders      int     `json:"total_orders"`
	SuccessfulOrders int     `json:"successful_orders"`
	FailedOrders     int     `json:"failed_orders"`
	BudgetRemaining  int     `json:"budget_remaining"`
	MeasuredSLO      float64 `json:"measured_slo"`
}

// Snapshot flattens a result into its golden representation.
func Snapshot(res *Result) *TraceSnapshot {
	outcome := "none"
	if res.Summary != nil {
		outcome = res.Summary.OutcomeName
	}
	return &TraceSnapshot{
		Scenario: res.Scenario.Name,
		SLO:      res.Scenario.SLO,
		Trace:    res.Trace,
		Final: FinalState{
			Phase:            res.Final.Phase.String(),
			Outcome:          outcome,
			Score:            res.Final.Score,
			TotalOrders:      res.Final.TotalOrders,
			SuccessfulOrders: res.Final.SuccessfulOrders,
			FailedOrders:     res.Final.FailedOrders,
			BudgetRemaining:  res.Final.BudgetRemaining,
			MeasuredSLO:      res.Final.MeasuredSLO,
		},
	}
}

// AssertGolden compares a result's trace snapshot against
// testdata/golden/{scenario name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, res *Result) error {
	t.Helper()

	data, err := json.MarshalIndent(Snapshot(res), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trace snapshot: %w", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, res.Scenario.Name, data)
	return nil
}
