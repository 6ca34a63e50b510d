package game

import (
	"context"
	"time"
)

// FeedbackKind distinguishes success from failure feedback.
type FeedbackKind int

const (
	FeedbackSuccess FeedbackKind = iota + 1
	FeedbackFailure
)

// String implements fmt.Stringer.
func (k FeedbackKind) String() string {
	if k == FeedbackSuccess {
		return "success"
	}
	return "failure"
}

// Presenter is the presentation port, implemented by the host. Orders
// are identified by their stable order ID; the host maps IDs to
// whatever visual resources it allocates in RenderOrder and releases
// them in RemoveOrder.
//
// The engine calls the presenter synchronously from inside its event
// processing, so implementations must not call back into the engine
// from these methods (schedule the callback instead).
type Presenter interface {
	// RenderOrder displays a newly spawned order.
	RenderOrder(o Order)

	// UpdateOrderTimer refreshes the countdown visual for an active
	// order. Display-only: the host drives this from its own refresh
	// cadence via Engine.RemainingFraction, never from the core.
	UpdateOrderTimer(orderID string, remaining float64)

	// RemoveOrder releases the presentation resources of an order.
	RemoveOrder(orderID string)

	// ShowFeedback displays transient feedback at the order's position.
	ShowFeedback(orderID, text string, kind FeedbackKind)

	// ShowLevelBanner announces a level before its lead-in elapses.
	ShowLevelBanner(level Level)

	// UpdateHUD refreshes the heads-up display after a state change.
	UpdateHUD(s Snapshot)

	// ShowGameOver displays the final summary screen.
	ShowGameOver(sum Summary)

	// ShowLeaderboard displays the bounded top-score list.
	ShowLeaderboard(entries []ScoreEntry)
}

// TimerHandle is a cancellable scheduled callback. Cancel is idempotent:
// cancelling an already-fired or already-cancelled timer is a no-op,
// never an error.
type TimerHandle interface {
	Cancel()
}

// Scheduler is the host scheduling facility. The engine never blocks
// and never runs its own loop; it asks the scheduler to call it back.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) TimerHandle
}

// Clock supplies the current time. The engine computes every elapsed
// duration as "now minus recorded start", which keeps the logic
// tolerant of scheduler jitter.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ScoreEntry is one leaderboard record.
type ScoreEntry struct {
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	SLOName    string    `json:"slo_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Scoreboard is the persistence port: a bounded top-N leaderboard.
// Failures degrade to "no leaderboard"; they are never surfaced to the
// player as errors.
type Scoreboard interface {
	// TopScores returns entries in descending score order, bounded.
	TopScores(ctx context.Context) ([]ScoreEntry, error)

	// SaveScore appends an entry, re-sorts descending by score, and
	// truncates to the bound. An empty player name is defaulted, never
	// rejected.
	SaveScore(ctx context.Context, playerName string, score int, sloName string) error
}
