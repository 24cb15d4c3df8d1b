// Package mdpapi defines the EnvironmentAPI contract every MDP source
// (explicit transition files, benchmark generators) must satisfy, along
// with the small value types — Direction, the two heuristic enums, and
// ExplorationSettings — that configure a solver run, and the error
// sentinels shared by the rest of the module.
package mdpapi

import "errors"

// EnvironmentAPI is the contract a source of a multi-objective MDP must
// satisfy. State identity is an opaque string key; action identity is a
// per-state integer index, not a global action ID — action i means
// different things in different states.
type EnvironmentAPI interface {
	// CurrentState returns the environment's present state key.
	CurrentState() string
	// Actions returns the indices of actions available from state.
	Actions(state string) []int
	// Transition returns the successor-state distribution for (state,
	// action): a map from successor state key to transition probability.
	// The probabilities must sum to 1.
	Transition(state string, action int) (map[string]float64, error)
	// Reward returns the expected immediate vector reward of taking
	// action in state.
	Reward(state string, action int) []float64
	// RewardRange returns the componentwise (min, max) achievable
	// immediate reward, used to seed initial bound vectors.
	RewardRange() (min, max []float64)
	// Step advances the environment by one transition, sampling a
	// successor according to Transition(CurrentState(), action).
	Step(action int) (next string, reward []float64, terminated bool, err error)
	// Reset reinitializes the environment deterministically from seed
	// and returns the new current state.
	Reset(seed int64) (state string, err error)
	// IsTerminal reports whether state ends an episode. The solvers neither
	// expand nor update a terminal state, whatever Transition returns for
	// it.
	IsTerminal(state string) bool
}

// Direction indicates whether an objective should be maximized or
// minimized. The core solvers always internally maximize; a MINIMIZE
// objective is realized by negating that objective's reward on ingestion.
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

// ActionHeuristic selects how a solver picks which action to explore next
// from a state during a BRTDP trajectory.
type ActionHeuristic int

const (
	// ActionUniform picks uniformly among available actions.
	ActionUniform ActionHeuristic = iota
	// ActionPareto picks uniformly among the actions whose upper bound
	// contributes at least one vertex that no other available action's
	// upper-bound vertex strictly dominates.
	ActionPareto
	// ActionHypervolume is accepted as a setting, but the solvers treat it
	// exactly like ActionPareto: no hypervolume contribution is computed.
	ActionHypervolume
)

// StateHeuristic selects how a solver picks which successor state to
// descend into during a BRTDP trajectory.
type StateHeuristic int

const (
	// StateBRTDP picks the successor maximizing
	// transition_probability * bound_distance.
	StateBRTDP StateHeuristic = iota
	// StateUniform picks a successor by sampling the transition
	// distribution directly.
	StateUniform
)

// ExplorationSettings carries every configurable parameter of a solver
// run: precision/convergence thresholds, the discount vector, per-objective
// directions, the heuristics, episode/depth limits, tracing, the initial
// bound seeds, and batch-repeat/seed fields used by cmd/paretomdp.
type ExplorationSettings struct {
	// Precision is the convergence threshold epsilon.
	Precision float64
	// Discount is the per-objective discount factor gamma.
	Discount []float64
	// Directions is the per-objective Maximize/Minimize orientation.
	Directions []Direction

	ActionHeuristic ActionHeuristic
	StateHeuristic  StateHeuristic

	// MaxEpisodes bounds the number of BRTDP trajectories sampled.
	MaxEpisodes int
	// MaxDepth bounds the length of a single BRTDP trajectory.
	MaxDepth int
	// MinDepth is the minimum trajectory length before the
	// gamma^k * r_max < epsilon termination condition is honored.
	MinDepth int
	// MaxSweeps bounds the number of CHVI sweeps over the reachable set.
	MaxSweeps int

	// Trace enables per-episode/per-sweep structured logging.
	Trace bool

	// InitialLowerBound and InitialUpperBound seed newly discovered
	// non-terminal states' Bounds.
	InitialLowerBound []float64
	InitialUpperBound []float64
	// TerminalLowerBound and TerminalUpperBound seed newly discovered
	// terminal states' Bounds.
	TerminalLowerBound []float64
	TerminalUpperBound []float64

	// OutputFile names the destination for telemetry's CSV/text output.
	OutputFile string
	// Repeat is the number of independent solver runs to batch
	// (cmd/paretomdp writes one CSV row of aggregate statistics per
	// batch).
	Repeat int
	// Seed initializes EnvWrapper's process-owned PRNG.
	Seed int64
}

// Error sentinels returned (directly or wrapped with %w) by this module:
//
//   - ErrInvalidGeometry: a geometric precondition was violated (mismatched
//     curve dimension, a non-convex operand passed where convexity is
//     assumed). This indicates a programming error upstream and callers
//     that encounter it are expected to have already failed fast via panic
//     in the geometry layer; it exists here for completeness of the error
//     taxonomy and for any caller that wraps a recovered panic.
//   - ErrParse: a transition/reward/map file failed to parse. Recoverable
//     per-file; callers may skip or abort.
//   - ErrNonconvergence: a solver run exhausted its episode/sweep budget
//     before the Hausdorff gap fell under Precision. Non-fatal; the
//     solver still returns its best Bounds along with a false Converged
//     flag.
var (
	ErrInvalidGeometry = errors.New("mdpapi: invalid geometry")
	ErrParse           = errors.New("mdpapi: parse error")
	ErrNonconvergence  = errors.New("mdpapi: solver did not converge")
)
