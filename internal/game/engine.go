package game

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

// basePoints is awarded for every completed order; the speed bonus is
// added on top.
const basePoints = 100

// bonusDivisor converts remaining lifetime into bonus points: one point
// per 100ms left on the clock at completion.
const bonusDivisor = 100 * time.Millisecond

// Engine drives one game session at a time against the host-provided
// ports. Construct with New, call Start with a chosen SLO target, and
// deliver player input through CompleteOrder. Reset recreates the
// session aggregate for "play again".
//
// Thread-safety model:
//   - Every exported method and every scheduled callback serializes on
//     the engine mutex; event processing is single-writer.
//   - Presenter calls happen while the mutex is held, so presenters
//     must not call back into the engine synchronously.
type Engine struct {
	mu sync.Mutex

	rules     *Rules
	presenter Presenter
	scheduler Scheduler
	clock     Clock
	scores    Scoreboard // may be nil: no leaderboard
	ids       IDGenerator
	rng       *rand.Rand
	log       *slog.Logger

	timers  *timerRegistry
	session *session
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the system clock, typically with a manual clock in
// tests.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator replaces the UUIDv7 order ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithScoreboard attaches a persistence port for leaderboard
// submission. Without one, SubmitScore is a no-op.
func WithScoreboard(s Scoreboard) Option {
	return func(e *Engine) { e.scores = s }
}

// WithSeed seeds the order-type picker for reproducible sessions.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine in the SLO-selection phase.
func New(rules *Rules, p Presenter, s Scheduler, opts ...Option) *Engine {
	e := &Engine{
		rules:     rules,
		presenter: p,
		scheduler: s,
		clock:     SystemClock{},
		ids:       UUIDv7Generator{},
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:       slog.Default(),
		timers:    newTimerRegistry(),
		session:   newSession(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a session for the chosen SLO target. Ignored unless the
// engine is in the SLO-selection phase; call Reset first to play again.
func (e *Engine) Start(target SLOTarget) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.phase != PhaseSLOSelection {
		e.log.Warn("start ignored", "phase", e.session.phase.String())
		return
	}

	e.session.begin(target)
	e.log.Info("session started",
		"target", target.Name,
		"error_budget", target.ErrorBudget,
		"levels", len(e.rules.Levels))

	e.presenter.UpdateHUD(e.snapshotLocked())
	e.startLevel(0)
}

// CompleteOrder records a player acting on a still-active order.
// Returns the points awarded and true on success; (0, false) if the
// order already resolved or the session is not playing. Racing an
// expiry on the same order is expected and resolved first-wins.
func (e *Engine) CompleteOrder(orderID string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.phase != PhasePlaying {
		return 0, false
	}
	o, ok := e.session.removeActive(orderID)
	if !ok {
		return 0, false
	}
	e.timers.cancelExpiry(orderID)

	e.session.successfulOrders++

	elapsed := e.clock.Now().Sub(o.StartTime)
	points := basePoints + speedBonus(o.Lifetime, elapsed)
	e.session.score += points
	e.session.recomputeSLO()

	e.log.Debug("order completed",
		"order", orderID,
		"type", o.Type.Name,
		"elapsed", elapsed,
		"points", points)

	e.presenter.ShowFeedback(orderID, feedbackText(points), FeedbackSuccess)
	e.presenter.RemoveOrder(orderID)
	e.presenter.UpdateHUD(e.snapshotLocked())
	return points, true
}

// Reset discards the session and returns to SLO selection. Nothing
// from the previous session survives: timers are cancelled, the
// active-order set is released, and the aggregate is recreated.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timers.cancelAll()
	for id := range e.session.active {
		e.presenter.RemoveOrder(id)
	}
	e.timers = newTimerRegistry()
	e.session = newSession()
	e.log.Info("session reset")
}

// Snapshot returns the current HUD view.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// RemainingFraction reports the fraction of lifetime left for an active
// order, for countdown display. Returns false if the order is no longer
// active.
func (e *Engine) RemainingFraction(orderID string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.session.active[orderID]
	if !ok {
		return 0, false
	}
	remaining := o.Lifetime - e.clock.Now().Sub(o.StartTime)
	if remaining < 0 {
		remaining = 0
	}
	return float64(remaining) / float64(o.Lifetime), true
}

// SubmitScore persists the finished session's score and shows the
// leaderboard. Only valid after game over. An empty player name is
// defaulted by the scoreboard. Persistence failures degrade to "no
// leaderboard" and are never surfaced as player-facing errors.
func (e *Engine) SubmitScore(ctx context.Context, playerName string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.phase != PhaseGameOver || e.scores == nil {
		return
	}

	if err := e.scores.SaveScore(ctx, playerName, e.session.score, e.session.target.Name); err != nil {
		e.log.Warn("score not saved", "error", err)
		return
	}
	entries, err := e.scores.TopScores(ctx)
	if err != nil {
		e.log.Warn("leaderboard unavailable", "error", err)
		return
	}
	e.presenter.ShowLeaderboard(entries)
}

// startLevel advances to the level at index i, or ends the session as
// won when the sequence is exhausted. Caller holds the mutex.
func (e *Engine) startLevel(i int) {
	if e.session.phase != PhasePlaying {
		return
	}

	// Structural cancellation: no timer from the previous level may
	// outlive the transition.
	e.timers.cancel(timerSpawn)
	e.timers.cancel(timerLevelStart)
	e.timers.cancel(timerLevelEnd)

	if i >= len(e.rules.Levels) {
		e.endSession(OutcomeWon)
		return
	}

	level := e.rules.Levels[i]
	e.session.levelIndex = i
	e.log.Info("level started", "level", level.Number, "name", level.Name)
	e.presenter.ShowLevelBanner(level)

	e.timers.set(timerLevelStart, e.scheduler.Schedule(e.rules.Settings.LevelLeadIn, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.beginLevelPlay(i)
	}))
}

// beginLevelPlay fires after the level lead-in: first spawn plus the
// level-end timer. Caller holds the mutex.
func (e *Engine) beginLevelPlay(i int) {
	if e.session.phase != PhasePlaying || e.session.levelIndex != i {
		return
	}
	level := e.rules.Levels[i]

	e.spawnOrder(level)

	e.timers.set(timerLevelEnd, e.scheduler.Schedule(level.Duration, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// Stale after game over or an explicit transition: cleanup only.
		if e.session.phase != PhasePlaying || e.session.levelIndex != i {
			return
		}
		e.startLevel(i + 1)
	}))
}

// spawnOrder instantiates one order from the level's pool and schedules
// both its expiry and the next spawn. Self-terminating: if the session
// left the playing phase, nothing is spawned and no further spawn is
// scheduled. Caller holds the mutex.
func (e *Engine) spawnOrder(level Level) {
	if e.session.phase != PhasePlaying {
		return
	}

	pool := e.rules.Pool(level.Complexity)
	if len(pool) == 0 {
		e.log.Warn("empty order pool", "complexity", level.Complexity)
		return
	}
	orderType := pool[e.rng.IntN(len(pool))]

	o := &Order{
		ID:        e.ids.NewID(),
		Type:      orderType,
		StartTime: e.clock.Now(),
		Lifetime:  e.rules.Settings.OrderLifetime,
	}
	e.session.active[o.ID] = o
	e.session.totalOrders++

	e.log.Debug("order spawned", "order", o.ID, "type", orderType.Name)
	e.presenter.RenderOrder(*o)

	e.timers.setExpiry(o.ID, e.scheduler.Schedule(o.Lifetime, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.expireOrder(o.ID)
	}))

	e.timers.set(timerSpawn, e.scheduler.Schedule(level.SpawnDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.spawnOrder(level)
	}))

	e.presenter.UpdateHUD(e.snapshotLocked())
}

// expireOrder handles the expiry timer of an order. The source of
// truth is "now - startTime >= lifetime": if the callback fired early,
// it re-arms for the remainder instead of failing the order. Caller
// holds the mutex.
func (e *Engine) expireOrder(orderID string) {
	if e.session.phase != PhasePlaying {
		return
	}
	o, ok := e.session.active[orderID]
	if !ok {
		// Completed first; the race resolved against us.
		return
	}

	elapsed := e.clock.Now().Sub(o.StartTime)
	if elapsed < o.Lifetime {
		e.timers.setExpiry(orderID, e.scheduler.Schedule(o.Lifetime-elapsed, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.expireOrder(orderID)
		}))
		return
	}

	e.session.removeActive(orderID)
	e.timers.cancelExpiry(orderID)

	e.session.failedOrders++
	if e.session.target.ErrorBudget > 0 && e.session.budgetRemaining > 0 {
		e.session.budgetRemaining--
	}
	e.session.recomputeSLO()

	e.log.Debug("order expired",
		"order", orderID,
		"type", o.Type.Name,
		"budget_remaining", e.session.budgetRemaining)

	e.presenter.ShowFeedback(orderID, "FAILED", FeedbackFailure)
	e.presenter.RemoveOrder(orderID)
	e.presenter.UpdateHUD(e.snapshotLocked())

	// A zero-budget target has nothing to spend: any failure ends the
	// session immediately.
	if e.session.budgetRemaining <= 0 {
		e.endSession(OutcomeLost)
	}
}

// endSession freezes the session in the game-over phase. Caller holds
// the mutex. A loss is triggered only by budget exhaustion; a win only
// by exhausting the level sequence.
func (e *Engine) endSession(outcome Outcome) {
	e.session.phase = PhaseGameOver
	e.session.outcome = outcome

	e.timers.cancelAll()
	for id := range e.session.active {
		e.presenter.RemoveOrder(id)
		delete(e.session.active, id)
	}

	sum := e.session.summary()
	e.log.Info("session ended",
		"outcome", outcome.String(),
		"score", sum.Score,
		"measured_slo", sum.MeasuredSLO,
		"orders", sum.TotalOrders)

	e.presenter.UpdateHUD(e.snapshotLocked())
	e.presenter.ShowGameOver(sum)
}

// snapshotLocked builds the HUD snapshot. Caller holds the mutex.
func (e *Engine) snapshotLocked() Snapshot {
	levelNumber := 0
	if i := e.session.levelIndex; i < len(e.rules.Levels) && e.session.phase != PhaseSLOSelection {
		levelNumber = e.rules.Levels[i].Number
	}
	return e.session.snapshot(levelNumber)
}

// speedBonus rewards fast completions: one point per 100ms of lifetime
// left, floored at zero. Slow-but-successful completions lose the
// bonus, never incur a penalty.
func speedBonus(lifetime, elapsed time.Duration) int {
	remaining := lifetime - elapsed
	if remaining <= 0 {
		return 0
	}
	return int(remaining / bonusDivisor)
}

// feedbackText matches the transient "+N" popups of the presentation
// layer.
func feedbackText(points int) string {
	return "+" + strconv.Itoa(points)
}
