package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pareto/chvi/config"
	"github.com/go-pareto/chvi/mdpapi"
)

func writeYAML(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `
precision: 0.001
discount: [0.9, 0.95]
directions: [maximize, minimize]
`)

	settings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.001, settings.Precision)
	assert.Equal(t, []float64{0.9, 0.95}, settings.Discount)
	assert.Equal(t, []mdpapi.Direction{mdpapi.Maximize, mdpapi.Minimize}, settings.Directions)
	assert.Equal(t, mdpapi.ActionPareto, settings.ActionHeuristic)
	assert.Equal(t, mdpapi.StateBRTDP, settings.StateHeuristic)
	assert.Equal(t, 10000, settings.MaxEpisodes)
	assert.Equal(t, 1, settings.Repeat)
	assert.Equal(t, "results.csv", settings.OutputFile)
}

func TestLoadResolvesHeuristicsAndBudgets(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `
precision: 1e-6
discount: [0.75, 0.75]
directions: [maximize, maximize]
action_heuristic: uniform
state_heuristic: uniform
max_episodes: 500
max_depth: 50
max_sweeps: 20
repeat: 3
trace: true
initial_lower_bound: [-10, -10]
initial_upper_bound: [10, 10]
terminal_lower_bound: [0, 0]
terminal_upper_bound: [0, 0]
output_file: out.csv
seed: 42
`)

	settings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, mdpapi.ActionUniform, settings.ActionHeuristic)
	assert.Equal(t, mdpapi.StateUniform, settings.StateHeuristic)
	assert.Equal(t, 500, settings.MaxEpisodes)
	assert.Equal(t, 50, settings.MaxDepth)
	assert.Equal(t, 20, settings.MaxSweeps)
	assert.Equal(t, 3, settings.Repeat)
	assert.True(t, settings.Trace)
	assert.Equal(t, []float64{-10, -10}, settings.InitialLowerBound)
	assert.Equal(t, []float64{0, 0}, settings.TerminalLowerBound)
	assert.Equal(t, "out.csv", settings.OutputFile)
	assert.Equal(t, int64(42), settings.Seed)
}

func TestLoadRejectsUnknownDirection(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `
discount: [0.9]
directions: [sideways]
`)

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownActionHeuristic(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `
discount: [0.9]
directions: [maximize]
action_heuristic: quantum
`)

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `
precision: 0.5
discount: [0.9]
directions: [maximize]
`)

	t.Setenv("PARETOMDP_PRECISION", "0.25")
	settings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, settings.Precision)
}

func TestLoadWithoutPathUsesDefaults(t *testing.T) {
	settings, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 1e-6, settings.Precision)
	assert.Equal(t, []float64{0.9, 0.9}, settings.Discount)
}

func TestParseFloats(t *testing.T) {
	vals, err := config.ParseFloats("1,2.5,-3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, -3}, vals)

	empty, err := config.ParseFloats("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = config.ParseFloats("not-a-number")
	require.Error(t, err)
}
