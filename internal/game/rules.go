package game

import "time"

// Settings are the global constants of a game configuration.
type Settings struct {
	// OrderLifetime is how long an order stays before timing out.
	// Identical across all orders regardless of type.
	OrderLifetime time.Duration

	// LevelLeadIn is the delay between the level banner and the first
	// spawn of that level.
	LevelLeadIn time.Duration

	// PerfectTimeWindow is carried from the original configuration
	// surface and remains display-only.
	PerfectTimeWindow time.Duration

	// Canvas dimensions are display-only and unused by the core.
	CanvasWidth  int
	CanvasHeight int
}

// Rules is the immutable configuration surface of a game: the SLO
// targets on offer, the order catalog per complexity tier, the ordered
// level sequence, and the global settings. Read-only to the engine.
type Rules struct {
	Targets  []SLOTarget
	Catalog  map[string][]OrderType
	Levels   []Level
	Settings Settings
}

// TargetByName returns the SLO target with the given display name.
func (r *Rules) TargetByName(name string) (SLOTarget, bool) {
	for _, t := range r.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return SLOTarget{}, false
}

// Pool returns the order-type pool for a complexity tier. Returns nil
// for an unknown tier; config validation rejects levels that reference
// one.
func (r *Rules) Pool(complexity string) []OrderType {
	return r.Catalog[complexity]
}

// Scale returns a copy of the rules with every duration divided by the
// given factor. Used by headless simulation to compress a multi-minute
// session into seconds. A factor <= 1 returns the rules unchanged.
func (r *Rules) Scale(factor int) *Rules {
	if factor <= 1 {
		return r
	}
	div := time.Duration(factor)

	out := &Rules{
		Targets: r.Targets,
		Catalog: r.Catalog,
		Levels:  make([]Level, len(r.Levels)),
		Settings: Settings{
			OrderLifetime:     r.Settings.OrderLifetime / div,
			LevelLeadIn:       r.Settings.LevelLeadIn / div,
			PerfectTimeWindow: r.Settings.PerfectTimeWindow / div,
			CanvasWidth:       r.Settings.CanvasWidth,
			CanvasHeight:      r.Settings.CanvasHeight,
		},
	}
	for i, lvl := range r.Levels {
		lvl.SpawnDelay /= div
		lvl.Duration /= div
		out.Levels[i] = lvl
	}
	return out
}
