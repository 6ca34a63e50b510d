// Package game implements the barista error-budget game engine.
//
// The engine owns a single game session: SLO target selection, level
// progression, the order spawn/complete/expire lifecycle, error-budget
// accounting, and scoring. Everything visual or persistent is reached
// through ports (Presenter, Scheduler, Clock, Scoreboard) so the core
// can run under a rendering host, a headless simulation, or a fully
// deterministic test harness without modification.
//
// ARCHITECTURE:
//
// Reactive, callback-driven core:
// The engine never polls and never runs its own loop. The host's
// Scheduler invokes engine callbacks at requested delays (level lead-in,
// level end, order spawn, order expiry) and delivers user input as
// CompleteOrder calls. All entry points serialize on a single mutex, so
// event processing is effectively single-writer even when the scheduler
// fires callbacks from timer goroutines.
//
// Order lifecycle:
// Each live order has exactly two possible terminal transitions,
// completion and expiry, raced cooperatively. The active-order map is
// the single decision point: whichever handler removes the order first
// wins, and the loser becomes a no-op. Removal under the engine mutex
// is the linearization point; there is no double-counting.
//
// Time:
// The engine computes elapsed time as "clock now minus recorded start",
// never by trusting callback delivery times. A late or early timer
// callback is therefore harmless: expiry re-arms itself if it fires
// before the order lifetime has actually elapsed, and every pending
// callback checks the session phase before acting so stale timers after
// game over do nothing.
package game
