package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for the game engine.
// A scenario selects an SLO target, drives the session through a
// timeline of steps on a deterministic clock, and asserts on the
// resulting trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden
	// file when golden comparison is used.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SLO is the display name of the target to play, resolved against
	// the harness rules (e.g. "99.9%").
	SLO string `yaml:"slo"`

	// Steps is the timeline. Steps execute in order against the manual
	// scheduler.
	Steps []Step `yaml:"steps"`

	// Expect optionally validates the final session state. Only
	// specified fields are checked (subset match).
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step is one timeline entry. Exactly one field should be set.
type Step struct {
	// Advance moves simulated time forward by this many milliseconds,
	// firing every timer that falls due.
	Advance int `yaml:"advance,omitempty"`

	// Complete acts on the Nth spawned order (1-based spawn ordinal)
	// at the current simulated time. Completing an order that already
	// resolved is a recorded no-op, which lets scenarios exercise the
	// completion/expiry race.
	Complete int `yaml:"complete,omitempty"`
}

// Expect specifies expected final state. Pointer fields distinguish
// "unspecified" from zero.
type Expect struct {
	// Outcome is "won", "lost", or "playing" (session still running).
	Outcome string `yaml:"outcome,omitempty"`

	Score            *int `yaml:"score,omitempty"`
	TotalOrders      *int `yaml:"total_orders,omitempty"`
	SuccessfulOrders *int `yaml:"successful_orders,omitempty"`
	FailedOrders     *int `yaml:"failed_orders,omitempty"`
	BudgetRemaining  *int `yaml:"budget_remaining,omitempty"`
}

// LoadScenario reads and validates a single scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

// LoadScenarios reads every *.yaml scenario in a directory, sorted by
// filename for deterministic execution order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	sort.Strings(matches)

	var scenarios []*Scenario
	for _, path := range matches {
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

func (sc *Scenario) validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if sc.SLO == "" {
		return fmt.Errorf("scenario slo is required")
	}
	for i, st := range sc.Steps {
		if st.Advance < 0 || st.Complete < 0 {
			return fmt.Errorf("step %d: negative value", i)
		}
		if st.Advance > 0 && st.Complete > 0 {
			return fmt.Errorf("step %d: advance and complete are mutually exclusive", i)
		}
		if st.Advance == 0 && st.Complete == 0 {
			return fmt.Errorf("step %d: one of advance or complete is required", i)
		}
	}
	if sc.Expect != nil {
		switch sc.Expect.Outcome {
		case "", "won", "lost", "playing":
		default:
			return fmt.Errorf("expect.outcome must be won, lost, or playing")
		}
	}
	return nil
}
