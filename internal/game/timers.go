package game

// timerPurpose keys the session-scoped timers in the registry. Keying
// by purpose makes cancellation-on-transition structural: setting a
// purpose cancels its predecessor, and cancelAll sweeps everything.
type timerPurpose string

const (
	timerLevelStart timerPurpose = "level_start"
	timerLevelEnd   timerPurpose = "level_end"
	timerSpawn      timerPurpose = "spawn"
)

// timerRegistry owns every pending timer handle of a session: the
// purpose-keyed level/spawn timers plus one expiry timer per active
// order. Not safe for concurrent use on its own; the engine mutex
// guards it.
type timerRegistry struct {
	named  map[timerPurpose]TimerHandle
	expiry map[string]TimerHandle // keyed by order ID
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{
		named:  make(map[timerPurpose]TimerHandle),
		expiry: make(map[string]TimerHandle),
	}
}

// set registers a handle under a purpose, cancelling any predecessor.
func (r *timerRegistry) set(p timerPurpose, h TimerHandle) {
	if prev, ok := r.named[p]; ok {
		prev.Cancel()
	}
	r.named[p] = h
}

// cancel cancels and forgets the handle for a purpose. No-op if none
// is registered.
func (r *timerRegistry) cancel(p timerPurpose) {
	if h, ok := r.named[p]; ok {
		h.Cancel()
		delete(r.named, p)
	}
}

// setExpiry registers the expiry timer for an order, replacing any
// previous handle (expiry re-arms itself when it fires early).
func (r *timerRegistry) setExpiry(orderID string, h TimerHandle) {
	if prev, ok := r.expiry[orderID]; ok {
		prev.Cancel()
	}
	r.expiry[orderID] = h
}

// cancelExpiry cancels and forgets the expiry timer for an order.
func (r *timerRegistry) cancelExpiry(orderID string) {
	if h, ok := r.expiry[orderID]; ok {
		h.Cancel()
		delete(r.expiry, orderID)
	}
}

// cancelAll cancels every registered handle. Called on level transition
// and session end; idempotent because TimerHandle.Cancel is.
func (r *timerRegistry) cancelAll() {
	for p, h := range r.named {
		h.Cancel()
		delete(r.named, p)
	}
	for id, h := range r.expiry {
		h.Cancel()
		delete(r.expiry, id)
	}
}
