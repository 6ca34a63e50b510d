package game

// session is the single mutable aggregate of one game session. Created
// at session start and replaced wholesale on reset; never shared
// between sessions. All access is guarded by the engine mutex.
//
// INVARIANTS:
//   - totalOrders == successfulOrders + failedOrders + len(active)
//     after every event while playing; orders still in flight when the
//     session ends are discarded unresolved.
//   - budgetRemaining is non-increasing, decremented only on expiry,
//     never for a zero-budget target, and clamped at zero.
//   - phase moves strictly forward; once PhaseGameOver, no counter,
//     score, or order mutation occurs.
type session struct {
	target  SLOTarget
	phase   Phase
	outcome Outcome

	levelIndex       int
	totalOrders      int
	successfulOrders int
	failedOrders     int
	budgetRemaining  int
	measuredSLO      float64
	score            int

	// active maps order ID to the live order. Removal from this map is
	// the linearization point between completion and expiry.
	active map[string]*Order
}

func newSession() *session {
	return &session{
		phase:       PhaseSLOSelection,
		measuredSLO: 1.0,
		active:      make(map[string]*Order),
	}
}

// begin moves a fresh session into play for the chosen target.
func (s *session) begin(target SLOTarget) {
	s.target = target
	s.phase = PhasePlaying
	s.budgetRemaining = target.ErrorBudget
}

// removeActive attempts the atomic check-and-remove that decides which
// terminal transition wins an order. Returns the order and true exactly
// once per order; every later attempt returns false.
func (s *session) removeActive(orderID string) (*Order, bool) {
	o, ok := s.active[orderID]
	if !ok {
		return nil, false
	}
	delete(s.active, orderID)
	return o, true
}

// recomputeSLO refreshes the measured SLO after an order resolves.
// Defined as 1.0 before any order has been spawned (vacuous full
// compliance). Never recomputed retroactively.
func (s *session) recomputeSLO() {
	if s.totalOrders == 0 {
		s.measuredSLO = 1.0
		return
	}
	s.measuredSLO = float64(s.successfulOrders) / float64(s.totalOrders)
}

// budgetStatus classifies the remaining budget for HUD display.
func (s *session) budgetStatus() BudgetStatus {
	if s.target.ErrorBudget <= 0 {
		return BudgetCritical
	}
	ratio := float64(s.budgetRemaining) / float64(s.target.ErrorBudget)
	switch {
	case ratio > 0.5:
		return BudgetHealthy
	case ratio > 0.25:
		return BudgetWarning
	default:
		return BudgetCritical
	}
}

// snapshot builds the HUD view. levelNumber is resolved by the engine,
// which knows the level sequence.
func (s *session) snapshot(levelNumber int) Snapshot {
	return Snapshot{
		Phase:            s.phase,
		TargetName:       s.target.Name,
		TargetValue:      s.target.Value,
		LevelIndex:       s.levelIndex,
		LevelNumber:      levelNumber,
		TotalOrders:      s.totalOrders,
		SuccessfulOrders: s.successfulOrders,
		FailedOrders:     s.failedOrders,
		ActiveOrders:     len(s.active),
		BudgetRemaining:  s.budgetRemaining,
		MeasuredSLO:      s.measuredSLO,
		MeetsTarget:      s.measuredSLO >= s.target.Value,
		BudgetStatus:     s.budgetStatus(),
		Score:            s.score,
	}
}

// summary builds the final report for a finished session.
func (s *session) summary() Summary {
	msg := "Better luck next time!"
	switch {
	case s.outcome == OutcomeWon:
		msg = "You completed all levels!"
	case s.outcome == OutcomeLost && s.budgetRemaining <= 0:
		msg = "Error budget exhausted!"
	}

	rate := 0.0
	if s.totalOrders > 0 {
		rate = float64(s.successfulOrders) / float64(s.totalOrders) * 100
	}

	return Summary{
		Outcome:          s.outcome,
		OutcomeName:      s.outcome.String(),
		Message:          msg,
		Score:            s.score,
		TargetName:       s.target.Name,
		MeasuredSLO:      s.measuredSLO,
		TotalOrders:      s.totalOrders,
		SuccessfulOrders: s.successfulOrders,
		FailedOrders:     s.failedOrders,
		SuccessRate:      rate,
	}
}
