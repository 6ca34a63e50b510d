package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/barista/internal/game"
)

// writeConfig drops a single CUE file into a temp dir and returns the
// dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "game.cue"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

func loadErrorCode(t *testing.T, err error) string {
	t.Helper()
	var le *LoadError
	require.ErrorAs(t, err, &le)
	return le.Code
}

func TestDefault(t *testing.T) {
	rules, err := Default()
	require.NoError(t, err)

	require.Len(t, rules.Targets, 4)
	names := make([]string, len(rules.Targets))
	for i, target := range rules.Targets {
		names[i] = target.Name
	}
	assert.Equal(t, []string{"100%", "99.95%", "99.9%", "80%"}, names)

	perfect, ok := rules.TargetByName("100%")
	require.True(t, ok)
	assert.Equal(t, 0, perfect.ErrorBudget)
	assert.Equal(t, 1.0, perfect.Value)

	relaxed, ok := rules.TargetByName("80%")
	require.True(t, ok)
	assert.Equal(t, 2000, relaxed.ErrorBudget)

	require.Len(t, rules.Levels, 4)
	for i, level := range rules.Levels {
		assert.Equal(t, i+1, level.Number)
		assert.NotEmpty(t, rules.Pool(level.Complexity), "level %d pool", level.Number)
	}
	assert.Equal(t, 5*time.Second, rules.Levels[0].SpawnDelay)
	assert.Equal(t, 30*time.Second, rules.Levels[0].Duration)

	assert.Len(t, rules.Catalog["simple"], 3)
	assert.Len(t, rules.Catalog["medium"], 3)
	assert.Len(t, rules.Catalog["complex"], 5)

	assert.Equal(t, 10*time.Second, rules.Settings.OrderLifetime)
	assert.Equal(t, 2*time.Second, rules.Settings.LevelLeadIn)
	assert.Equal(t, 800, rules.Settings.CanvasWidth)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, ErrCodeNotFound, loadErrorCode(t, err))
}

func TestLoadNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.cue")
	require.NoError(t, os.WriteFile(path, []byte("game: {}"), 0o644))

	_, err := Load(path)
	assert.Equal(t, ErrCodeNotFound, loadErrorCode(t, err))
}

func TestLoadEmptyDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Equal(t, ErrCodeNoFiles, loadErrorCode(t, err))
}

func TestLoadValidConfig(t *testing.T) {
	dir := writeConfig(t, `
game: {
	sloTargets: [
		{name: "99%", value: 0.99, errorBudget: 100},
	]
	catalog: {
		simple: [{name: "Filter Coffee", time: 2000}]
	}
	levels: [
		{number: 1, name: "Only Level", complexity: "simple", spawnDelay: 4000, duration: 20000},
	]
	settings: orderLifetime: 8000
}
`)

	rules, err := Load(dir)
	require.NoError(t, err)

	require.Len(t, rules.Targets, 1)
	assert.Equal(t, game.SLOTarget{Name: "99%", Value: 0.99, ErrorBudget: 100}, rules.Targets[0])
	assert.Equal(t, 8*time.Second, rules.Settings.OrderLifetime)

	// Schema defaults fill the unspecified settings.
	assert.Equal(t, 2*time.Second, rules.Settings.LevelLeadIn)
	assert.Equal(t, 500*time.Millisecond, rules.Settings.PerfectTimeWindow)
	assert.Equal(t, 800, rules.Settings.CanvasWidth)
	assert.Equal(t, 600, rules.Settings.CanvasHeight)
}

func TestLoadRejectsTargetAboveOne(t *testing.T) {
	dir := writeConfig(t, `
game: {
	sloTargets: [{name: "150%", value: 1.5, errorBudget: 0}]
	catalog: simple: [{name: "Filter Coffee", time: 2000}]
	levels: [{number: 1, name: "Only Level", complexity: "simple", spawnDelay: 4000, duration: 20000}]
	settings: orderLifetime: 8000
}
`)

	_, err := Load(dir)
	assert.Equal(t, ErrCodeSchema, loadErrorCode(t, err))
}

func TestLoadRejectsNonPositiveDuration(t *testing.T) {
	dir := writeConfig(t, `
game: {
	sloTargets: [{name: "99%", value: 0.99, errorBudget: 100}]
	catalog: simple: [{name: "Filter Coffee", time: 2000}]
	levels: [{number: 1, name: "Only Level", complexity: "simple", spawnDelay: -1, duration: 20000}]
	settings: orderLifetime: 8000
}
`)

	_, err := Load(dir)
	assert.Equal(t, ErrCodeSchema, loadErrorCode(t, err))
}

func TestValidateSemantics(t *testing.T) {
	base := func() *game.Rules {
		return &game.Rules{
			Targets: []game.SLOTarget{{Name: "99%", Value: 0.99, ErrorBudget: 100}},
			Catalog: map[string][]game.OrderType{
				"simple": {{Name: "Filter Coffee", Time: 2 * time.Second}},
			},
			Levels: []game.Level{
				{Number: 1, Name: "One", Complexity: "simple", SpawnDelay: time.Second, Duration: time.Minute},
				{Number: 2, Name: "Two", Complexity: "simple", SpawnDelay: time.Second, Duration: time.Minute},
			},
			Settings: game.Settings{OrderLifetime: 10 * time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*game.Rules)
	}{
		{"no targets", func(r *game.Rules) { r.Targets = nil }},
		{"no levels", func(r *game.Rules) { r.Levels = nil }},
		{"duplicate target names", func(r *game.Rules) {
			r.Targets = append(r.Targets, r.Targets[0])
		}},
		{"level numbers not increasing", func(r *game.Rules) {
			r.Levels[1].Number = 1
		}},
		{"unknown complexity tier", func(r *game.Rules) {
			r.Levels[1].Complexity = "imaginary"
		}},
		{"empty pool", func(r *game.Rules) {
			r.Catalog["simple"] = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := base()
			tt.mutate(rules)
			err := Validate(rules)
			require.Error(t, err)
			assert.Equal(t, ErrCodeSemantic, loadErrorCode(t, err))
		})
	}

	assert.NoError(t, Validate(base()))
}
