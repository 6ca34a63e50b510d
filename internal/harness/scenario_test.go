package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: basic
description: smoke
slo: "99.9%"
steps:
  - advance: 2000
  - complete: 1
expect:
  outcome: playing
  score: 120
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "basic", sc.Name)
	assert.Equal(t, "99.9%", sc.SLO)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, 2000, sc.Steps[0].Advance)
	assert.Equal(t, 1, sc.Steps[1].Complete)
	require.NotNil(t, sc.Expect)
	require.NotNil(t, sc.Expect.Score)
	assert.Equal(t, 120, *sc.Expect.Score)
	assert.Nil(t, sc.Expect.TotalOrders, "unspecified fields stay nil")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing name",
			"slo: \"99.9%\"\nsteps:\n  - advance: 1000\n",
			"name is required",
		},
		{
			"missing slo",
			"name: x\nsteps:\n  - advance: 1000\n",
			"slo is required",
		},
		{
			"advance and complete together",
			"name: x\nslo: \"99.9%\"\nsteps:\n  - advance: 1000\n    complete: 1\n",
			"mutually exclusive",
		},
		{
			"empty step",
			"name: x\nslo: \"99.9%\"\nsteps:\n  - {}\n",
			"one of advance or complete",
		},
		{
			"negative advance",
			"name: x\nslo: \"99.9%\"\nsteps:\n  - advance: -5\n",
			"negative",
		},
		{
			"bad outcome",
			"name: x\nslo: \"99.9%\"\nsteps:\n  - advance: 1000\nexpect:\n  outcome: draw\n",
			"outcome must be",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadScenariosSortedByFilename(t *testing.T) {
	dir := t.TempDir()
	write := func(file, name string) {
		content := "name: " + name + "\nslo: \"99.9%\"\nsteps:\n  - advance: 1000\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
	}
	write("b.yaml", "second")
	write("a.yaml", "first")

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadScenariosEmptyDir(t *testing.T) {
	scenarios, err := LoadScenarios(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, scenarios)
}
