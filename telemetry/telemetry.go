// Package telemetry provides structured per-episode/per-sweep tracing via
// zerolog, plus a small CSV/text-file exporter for a solver run's final
// results — the two ambient concerns spec.md's "global mutable state"
// design note groups under "the output log files".
package telemetry

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Collector wraps a zerolog.Logger for structured tracing. It does not
// handle a run's exported results; WriteResultsCSV and
// WriteLowerBoundVertices write those to their own destinations.
type Collector struct {
	log zerolog.Logger
}

// New builds a Collector writing structured JSON lines to w. Pass
// os.Stdout for CLI use, or io.Discard when tracing is disabled — the
// latter keeps call sites unconditional rather than threading a
// trace-enabled bool through every call.
func New(w io.Writer) *Collector {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &Collector{log: logger}
}

// Discard returns a Collector that drops every event, for solver runs with
// tracing disabled.
func Discard() *Collector {
	return New(io.Discard)
}

// EpisodeStarted logs the start of one BRTDP trajectory.
func (c *Collector) EpisodeStarted(episode int, startState string) {
	c.log.Debug().
		Int("episode", episode).
		Str("start_state", startState).
		Msg("episode started")
}

// EpisodeFinished logs the outcome of one BRTDP trajectory.
func (c *Collector) EpisodeFinished(episode, depth int, terminatedEarly bool) {
	c.log.Debug().
		Int("episode", episode).
		Int("depth", depth).
		Bool("terminated_early", terminatedEarly).
		Msg("episode finished")
}

// SweepStarted logs the start of one CHVI sweep.
func (c *Collector) SweepStarted(sweep int) {
	c.log.Debug().Int("sweep", sweep).Msg("sweep started")
}

// SweepFinished logs the outcome of one CHVI sweep, including the initial
// state's current Hausdorff gap.
func (c *Collector) SweepFinished(sweep int, initialGap float64) {
	c.log.Info().
		Int("sweep", sweep).
		Float64("initial_gap", initialGap).
		Msg("sweep finished")
}

// StateVisited logs a discovered state's current visit count and
// Hausdorff gap — emitted by EnvWrapper.WriteStatistics once per state.
func (c *Collector) StateVisited(state string, visitCount int, gap float64) {
	c.log.Trace().
		Str("state", state).
		Int("visits", visitCount).
		Float64("gap", gap).
		Msg("state statistics")
}

// ActionVisited logs a single (state, action) pair's visit count.
func (c *Collector) ActionVisited(state string, action, visitCount int) {
	c.log.Trace().
		Str("state", state).
		Int("action", action).
		Int("visits", visitCount).
		Msg("action statistics")
}

// Converged logs whether a solver run converged within its budget.
func (c *Collector) Converged(solver string, converged bool, elapsed time.Duration) {
	c.log.Info().
		Str("solver", solver).
		Bool("converged", converged).
		Dur("elapsed", elapsed).
		Msg("solver finished")
}

// Nonconvergence logs a non-fatal failure to converge within the
// configured episode/sweep budget.
func (c *Collector) Nonconvergence(solver string, budget int) {
	c.log.Warn().
		Str("solver", solver).
		Int("budget", budget).
		Msg("solver exhausted budget without converging")
}

