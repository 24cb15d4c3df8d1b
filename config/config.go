// Package config loads the configuration surface spec.md §6 describes
// (precision, discount, directions, heuristics, episode/depth/sweep
// budgets, trace flag, initial/terminal bound seeds, output filename,
// repeat count) from a YAML file with PARETOMDP_-prefixed environment
// overrides, built on github.com/spf13/viper — the pack's most-represented
// configuration library (MeKo-Christian-pogo, viamrobotics-rdk, and
// wdfday-personalfinance-be all vendor viper; only
// Hola-to-network_logistics_problem uses knadh/koanf instead).
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/go-pareto/chvi/mdpapi"
)

// File mirrors the on-disk/YAML shape of an ExplorationSettings, keeping
// viper's unmarshal target decoupled from mdpapi.ExplorationSettings so
// that field renames or defaulting logic never leak into the core
// package. Directions and ActionHeuristic are read as strings and
// resolved by Load.
type File struct {
	Precision  float64   `mapstructure:"precision"`
	Discount   []float64 `mapstructure:"discount"`
	Directions []string  `mapstructure:"directions"`

	ActionHeuristic string `mapstructure:"action_heuristic"`
	StateHeuristic  string `mapstructure:"state_heuristic"`

	MaxEpisodes int `mapstructure:"max_episodes"`
	MaxDepth    int `mapstructure:"max_depth"`
	MinDepth    int `mapstructure:"min_depth"`
	MaxSweeps   int `mapstructure:"max_sweeps"`

	Trace bool `mapstructure:"trace"`

	InitialLowerBound  []float64 `mapstructure:"initial_lower_bound"`
	InitialUpperBound  []float64 `mapstructure:"initial_upper_bound"`
	TerminalLowerBound []float64 `mapstructure:"terminal_lower_bound"`
	TerminalUpperBound []float64 `mapstructure:"terminal_upper_bound"`

	OutputFile string `mapstructure:"output_file"`
	Repeat     int    `mapstructure:"repeat"`
	Seed       int64  `mapstructure:"seed"`
}

// defaults are registered with viper before the config file and
// environment layers are applied — every field a YAML file omits still
// resolves to something runnable. Deliberately does not set
// InitialLowerBound/InitialUpperBound/TerminalLowerBound/
// TerminalUpperBound: envwrap.EnvWrapper.Discover falls back to the
// min/max infinite-discounted reward when those are left empty, per
// spec.md §3/§4.4, so a default vector here would only ever shadow that
// fallback incorrectly for environments whose reward range config didn't
// anticipate.
var defaults = map[string]interface{}{
	"precision":        1e-6,
	"discount":         []float64{0.9, 0.9},
	"directions":       []string{"maximize", "maximize"},
	"action_heuristic": "pareto",
	"state_heuristic":  "brtdp",
	"max_episodes":     10000,
	"max_depth":        1000,
	"min_depth":        1,
	"max_sweeps":       1000,
	"repeat":           1,
	"output_file":      "results.csv",
}

// Load reads path (YAML) into an mdpapi.ExplorationSettings, layering
// PARETOMDP_-prefixed environment variables over the file — e.g.
// PARETOMDP_PRECISION or PARETOMDP_MAX_EPISODES override the
// corresponding YAML key.
func Load(path string) (mdpapi.ExplorationSettings, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return mdpapi.ExplorationSettings{}, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("paretomdp")
	v.AutomaticEnv()

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return mdpapi.ExplorationSettings{}, fmt.Errorf("config: unmarshalling: %w", err)
	}

	directions, err := resolveDirections(f.Directions)
	if err != nil {
		return mdpapi.ExplorationSettings{}, err
	}
	actionHeuristic, err := resolveActionHeuristic(f.ActionHeuristic)
	if err != nil {
		return mdpapi.ExplorationSettings{}, err
	}
	stateHeuristic, err := resolveStateHeuristic(f.StateHeuristic)
	if err != nil {
		return mdpapi.ExplorationSettings{}, err
	}

	return mdpapi.ExplorationSettings{
		Precision:           f.Precision,
		Discount:            f.Discount,
		Directions:          directions,
		ActionHeuristic:     actionHeuristic,
		StateHeuristic:      stateHeuristic,
		MaxEpisodes:         f.MaxEpisodes,
		MaxDepth:            f.MaxDepth,
		MinDepth:            f.MinDepth,
		MaxSweeps:           f.MaxSweeps,
		Trace:               f.Trace,
		InitialLowerBound:   f.InitialLowerBound,
		InitialUpperBound:   f.InitialUpperBound,
		TerminalLowerBound:  f.TerminalLowerBound,
		TerminalUpperBound:  f.TerminalUpperBound,
		OutputFile:          f.OutputFile,
		Repeat:              f.Repeat,
		Seed:                f.Seed,
	}, nil
}

func resolveDirections(raw []string) ([]mdpapi.Direction, error) {
	dirs := make([]mdpapi.Direction, len(raw))
	for i, s := range raw {
		switch strings.ToLower(s) {
		case "maximize", "max":
			dirs[i] = mdpapi.Maximize
		case "minimize", "min":
			dirs[i] = mdpapi.Minimize
		default:
			return nil, fmt.Errorf("config: unknown direction %q at index %d", s, i)
		}
	}
	return dirs, nil
}

func resolveActionHeuristic(s string) (mdpapi.ActionHeuristic, error) {
	switch strings.ToLower(s) {
	case "", "pareto":
		return mdpapi.ActionPareto, nil
	case "uniform":
		return mdpapi.ActionUniform, nil
	case "hypervolume":
		return mdpapi.ActionHypervolume, nil
	default:
		return 0, fmt.Errorf("config: unknown action_heuristic %q", s)
	}
}

func resolveStateHeuristic(s string) (mdpapi.StateHeuristic, error) {
	switch strings.ToLower(s) {
	case "", "brtdp":
		return mdpapi.StateBRTDP, nil
	case "uniform":
		return mdpapi.StateUniform, nil
	default:
		return 0, fmt.Errorf("config: unknown state_heuristic %q", s)
	}
}

// ParseFloats splits a comma-separated flag value ("0,0" or "1.5,2.5")
// into a float64 slice; an empty string yields nil. cmd/paretomdp does not
// call it and has no flag for the bound vectors.
func ParseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("config: parsing %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
