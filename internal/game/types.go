package game

import "time"

// SLOTarget is the service level the player commits to for a session.
// Selected once per session; never mutated.
type SLOTarget struct {
	// Name is the display label, e.g. "99.9%".
	Name string

	// Value is the target success ratio in (0, 1].
	Value float64

	// ErrorBudget is the number of failed orders tolerated before the
	// session is lost. A zero budget is an informational floor: it is
	// never decremented, and any failure immediately ends the session.
	ErrorBudget int

	// Description explains the trade-off to the player.
	Description string
}

// Level is one stage of the session. Levels form an ordered, finite
// sequence; traversal is strictly sequential with no skipping.
type Level struct {
	Number      int
	Name        string
	Description string

	// Complexity selects the order-type pool to spawn from.
	Complexity string

	// SpawnDelay is the time between order spawns.
	SpawnDelay time.Duration

	// Duration is how long the level runs before auto-advancing.
	Duration time.Duration
}

// OrderType is an immutable catalog entry.
type OrderType struct {
	Name string
	Icon string

	// Time is nominal preparation time, flavor/display only. It is not
	// authoritative for expiry; every live order uses the global
	// Settings.OrderLifetime regardless of type.
	Time time.Duration
}

// Order is a live order instance, created at spawn time. An order is
// active from spawn until it is either completed or expired, whichever
// comes first.
type Order struct {
	ID        string
	Type      OrderType
	StartTime time.Time
	Lifetime  time.Duration
}

// Phase is the session lifecycle phase. Transitions are strictly
// forward: SLOSelection -> Playing -> GameOver. The only way back is a
// full Reset, which recreates the session aggregate.
type Phase int

const (
	PhaseSLOSelection Phase = iota + 1
	PhasePlaying
	PhaseGameOver
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseSLOSelection:
		return "slo_selection"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome is how a finished session ended. A loss is triggered only by
// error-budget exhaustion; a win only by exhausting the level sequence.
// No third outcome exists.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "none"
	}
}

// BudgetStatus is a display classification of the remaining error
// budget, mirroring the HUD color thresholds.
type BudgetStatus int

const (
	// BudgetHealthy: more than half the budget remains.
	BudgetHealthy BudgetStatus = iota + 1
	// BudgetWarning: more than a quarter of the budget remains.
	BudgetWarning
	// BudgetCritical: a quarter or less remains. Zero-budget targets
	// are always critical.
	BudgetCritical
)

// String implements fmt.Stringer.
func (b BudgetStatus) String() string {
	switch b {
	case BudgetHealthy:
		return "healthy"
	case BudgetWarning:
		return "warning"
	default:
		return "critical"
	}
}

// Snapshot is a read-only view of session state for HUD display.
type Snapshot struct {
	Phase            Phase   `json:"phase"`
	TargetName       string  `json:"target_name"`
	TargetValue      float64 `json:"target_value"`
	LevelIndex       int     `json:"level_index"`
	LevelNumber      int     `json:"level_number"`
	TotalOrders      int     `json:"total_orders"`
	SuccessfulOrders int     `json:"successful_orders"`
	FailedOrders     int     `json:"failed_orders"`
	ActiveOrders     int     `json:"active_orders"`
	BudgetRemaining  int     `json:"budget_remaining"`
	MeasuredSLO      float64 `json:"measured_slo"`

	// MeetsTarget reports whether the measured SLO currently meets the
	// selected target value.
	MeetsTarget bool `json:"meets_target"`

	BudgetStatus BudgetStatus `json:"-"`
	Score        int          `json:"score"`
}

// Summary is the final report for a finished session, used for the
// game-over screen and leaderboard submission.
type Summary struct {
	Outcome          Outcome `json:"-"`
	OutcomeName      string  `json:"outcome"`
	Message          string  `json:"message"`
	Score            int     `json:"score"`
	TargetName       string  `json:"target_name"`
	MeasuredSLO      float64 `json:"measured_slo"`
	TotalOrders      int     `json:"total_orders"`
	SuccessfulOrders int     `json:"successful_orders"`
	FailedOrders     int     `json:"failed_orders"`

	// SuccessRate is successful/total as a percentage over all spawned
	// orders, including any still in flight at session end. It can
	// differ from MeasuredSLO, which is only recomputed when an order
	// resolves.
	SuccessRate float64 `json:"success_rate"`
}
