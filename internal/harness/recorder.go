package harness

import (
	"time"

	"github.com/roach88/barista/internal/game"
)

// TraceEvent is one observable presentation effect, stamped with
// milliseconds since session start. The trace is the deterministic
// record a golden file captures.
type TraceEvent struct {
	At     int64  `json:"at_ms"`
	Kind   string `json:"kind"`
	Order  string `json:"order,omitempty"`
	Level  int    `json:"level,omitempty"`
	Text   string `json:"text,omitempty"`
	Result string `json:"result,omitempty"`
	Score  int    `json:"score,omitempty"`
}

// Trace event kinds.
const (
	kindBanner      = "banner"
	kindRender      = "render"
	kindFeedback    = "feedback"
	kindRemove      = "remove"
	kindGameOver    = "game_over"
	kindLeaderboard = "leaderboard"
)

// recorder implements game.Presenter by recording every effect instead
// of drawing it. It also keeps the spawn order of IDs so scenario steps
// can reference orders by ordinal, and every HUD snapshot so the
// invariant checks can replay state evolution.
type recorder struct {
	clock game.Clock
	start time.Time

	trace     []TraceEvent
	spawned   []string
	snapshots []game.Snapshot
	summary   *game.Summary
}

func newRecorder(clock game.Clock, start time.Time) *recorder {
	return &recorder{clock: clock, start: start}
}

func (r *recorder) at() int64 {
	return r.clock.Now().Sub(r.start).Milliseconds()
}

// orderID resolves a 1-based spawn ordinal to an order ID.
func (r *recorder) orderID(ordinal int) (string, bool) {
	if ordinal < 1 || ordinal > len(r.spawned) {
		return "", false
	}
	return r.spawned[ordinal-1], true
}

func (r *recorder) RenderOrder(o game.Order) {
	r.spawned = append(r.spawned, o.ID)
	r.trace = append(r.trace, TraceEvent{
		At:    r.at(),
		Kind:  kindRender,
		Order: o.ID,
		Text:  o.Type.Name,
	})
}

func (r *recorder) UpdateOrderTimer(string, float64) {
	// Display cadence only; not part of the trace.
}

func (r *recorder) RemoveOrder(orderID string) {
	r.trace = append(r.trace, TraceEvent{At: r.at(), Kind: kindRemove, Order: orderID})
}

func (r *recorder) ShowFeedback(orderID, text string, kind game.FeedbackKind) {
	r.trace = append(r.trace, TraceEvent{
		At:     r.at(),
		Kind:   kindFeedback,
		Order:  orderID,
		Text:   text,
		Result: kind.String(),
	})
}

func (r *recorder) ShowLevelBanner(level game.Level) {
	r.trace = append(r.trace, TraceEvent{
		At:    r.at(),
		Kind:  kindBanner,
		Level: level.Number,
		Text:  level.Name,
	})
}

func (r *recorder) UpdateHUD(s game.Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) ShowGameOver(sum game.Summary) {
	r.summary = &sum
	r.trace = append(r.trace, TraceEvent{
		At:     r.at(),
		Kind:   kindGameOver,
		Result: sum.OutcomeName,
		Score:  sum.Score,
	})
}

func (r *recorder) ShowLeaderboard(entries []game.ScoreEntry) {
	r.trace = append(r.trace, TraceEvent{
		At:    r.at(),
		Kind:  kindLeaderboard,
		Score: len(entries),
	})
}
