// Package config loads and validates the barista game configuration
// surface: SLO targets, the order catalog per complexity tier, the
// ordered level sequence, and global settings.
//
// Configuration is authored in CUE. Every loaded value is unified with
// the embedded schema, so constraint violations (a target outside
// (0,1], a negative budget, a non-positive duration) surface as typed
// LoadErrors before the engine ever sees the rules. The package also
// embeds a complete default configuration reproducing the original
// game values.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/barista/internal/game"
)

//go:embed schema.cue
var schemaSource string

//go:embed defaults.cue
var defaultsSource string

// raw mirrors the CUE shape. Durations are milliseconds on the wire,
// converted to time.Duration in toRules.
type rawConfig struct {
	SLOTargets []rawTarget               `json:"sloTargets"`
	Catalog    map[string][]rawOrderType `json:"catalog"`
	Levels     []rawLevel                `json:"levels"`
	Settings   rawSettings               `json:"settings"`
}

type rawTarget struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	ErrorBudget int     `json:"errorBudget"`
	Description string  `json:"description"`
}

type rawOrderType struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Time int    `json:"time"`
}

type rawLevel struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Complexity  string `json:"complexity"`
	SpawnDelay  int    `json:"spawnDelay"`
	Duration    int    `json:"duration"`
}

type rawSettings struct {
	OrderLifetime     int `json:"orderLifetime"`
	PerfectTimeWindow int `json:"perfectTimeWindow"`
	LevelLeadIn       int `json:"levelLeadIn"`
	CanvasWidth       int `json:"canvasWidth"`
	CanvasHeight      int `json:"canvasHeight"`
}

// Load reads CUE config files from a directory, unifies them with the
// embedded schema, and returns validated game rules.
func Load(dir string) (*game.Rules, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, newLoadError(ErrCodeNotFound, "config directory not found: %s", dir)
	}
	if err != nil {
		return nil, newLoadError(ErrCodeNotFound, "error accessing config directory: %v", err)
	}
	if !info.IsDir() {
		return nil, newLoadError(ErrCodeNotFound, "not a directory: %s", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, newLoadError(ErrCodeLoadFailed, "scanning directory: %v", err)
	}
	if len(matches) == 0 {
		return nil, newLoadError(ErrCodeNoFiles, "no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, newLoadError(ErrCodeLoadFailed, "no CUE instances loaded")
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, newLoadError(ErrCodeLoadFailed, "loading CUE files: %v", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, newLoadError(ErrCodeBuildFailed, "building CUE value: %v", err)
	}

	return decode(ctx, value)
}

// Default returns the embedded default configuration.
var defaultRules = sync.OnceValues(func() (*game.Rules, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(defaultsSource, cue.Filename("defaults.cue"))
	if err := value.Err(); err != nil {
		return nil, newLoadError(ErrCodeBuildFailed, "building embedded defaults: %v", err)
	}
	return decode(ctx, value)
})

// Default returns the rules compiled from the embedded defaults.cue.
func Default() (*game.Rules, error) {
	return defaultRules()
}

// decode unifies a config value with the schema, decodes it, and runs
// the Go-side semantic checks.
func decode(ctx *cue.Context, value cue.Value) (*game.Rules, error) {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, newLoadError(ErrCodeBuildFailed, "building schema: %v", err)
	}

	unified := value.Unify(schema)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return nil, newLoadError(ErrCodeSchema, "%v", err)
	}

	gameVal := unified.LookupPath(cue.ParsePath("game"))
	if !gameVal.Exists() {
		return nil, newLoadError(ErrCodeSchema, `missing top-level "game" field`)
	}

	var raw rawConfig
	if err := gameVal.Decode(&raw); err != nil {
		return nil, newLoadError(ErrCodeSchema, "decoding config: %v", err)
	}

	rules := toRules(&raw)
	if err := Validate(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// toRules converts the wire shape into engine rules.
func toRules(raw *rawConfig) *game.Rules {
	rules := &game.Rules{
		Targets: make([]game.SLOTarget, len(raw.SLOTargets)),
		Catalog: make(map[string][]game.OrderType, len(raw.Catalog)),
		Levels:  make([]game.Level, len(raw.Levels)),
		Settings: game.Settings{
			OrderLifetime:     ms(raw.Settings.OrderLifetime),
			PerfectTimeWindow: ms(raw.Settings.PerfectTimeWindow),
			LevelLeadIn:       ms(raw.Settings.LevelLeadIn),
			CanvasWidth:       raw.Settings.CanvasWidth,
			CanvasHeight:      raw.Settings.CanvasHeight,
		},
	}

	for i, t := range raw.SLOTargets {
		rules.Targets[i] = game.SLOTarget{
			Name:        t.Name,
			Value:       t.Value,
			ErrorBudget: t.ErrorBudget,
			Description: t.Description,
		}
	}
	for tier, types := range raw.Catalog {
		pool := make([]game.OrderType, len(types))
		for i, ot := range types {
			pool[i] = game.OrderType{Name: ot.Name, Icon: ot.Icon, Time: ms(ot.Time)}
		}
		rules.Catalog[tier] = pool
	}
	for i, l := range raw.Levels {
		rules.Levels[i] = game.Level{
			Number:      l.Number,
			Name:        l.Name,
			Description: l.Description,
			Complexity:  l.Complexity,
			SpawnDelay:  ms(l.SpawnDelay),
			Duration:    ms(l.Duration),
		}
	}
	return rules
}

// Validate runs the semantic checks the CUE schema cannot express:
// non-empty sequences, levels referencing existing non-empty pools,
// strictly increasing level numbers, unique target names.
func Validate(rules *game.Rules) error {
	if len(rules.Targets) == 0 {
		return newLoadError(ErrCodeSemantic, "at least one SLO target is required")
	}
	if len(rules.Levels) == 0 {
		return newLoadError(ErrCodeSemantic, "at least one level is required")
	}

	seen := make(map[string]bool, len(rules.Targets))
	for _, t := range rules.Targets {
		if seen[t.Name] {
			return newLoadError(ErrCodeSemantic, "duplicate SLO target %q", t.Name)
		}
		seen[t.Name] = true
	}

	prev := 0
	for _, l := range rules.Levels {
		if l.Number <= prev {
			return newLoadError(ErrCodeSemantic,
				"level numbers must be strictly increasing: level %q has number %d after %d",
				l.Name, l.Number, prev)
		}
		prev = l.Number
		if len(rules.Catalog[l.Complexity]) == 0 {
			return newLoadError(ErrCodeSemantic,
				"level %q references empty or unknown complexity tier %q", l.Name, l.Complexity)
		}
	}
	return nil
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
