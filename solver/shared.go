// Package solver implements the two convex-Pareto-curve value-iteration
// drivers — BRTDPSolver (trajectory sampling with bounded real-time
// dynamic programming) and CHVISolver (convex hull value iteration over a
// BFS-discovered reachable set) — sharing a single update(s,a) step.
package solver

import (
	"fmt"
	"sort"

	"github.com/go-pareto/chvi/bounds"
	"github.com/go-pareto/chvi/envwrap"
	"github.com/go-pareto/chvi/pareto"
	"github.com/go-pareto/chvi/vecops"
)

// Result is the outcome of one solver run: the initial state's final
// Bounds, whether the configured precision was reached within budget, and
// how many update() calls were performed.
type Result struct {
	InitialBound *bounds.Bounds
	Converged    bool
	Updates      int
}

// update computes the combined Bounds for (state, action): the
// probability-weighted Minkowski sum of every successor state's current
// Bounds, scaled by the discount vector, then shifted by the expected
// immediate reward. The result is not Pareto-reduced — callers decide
// whether to reduce immediately (BRTDPSolver does) or defer to the next
// SetBound call (CHVISolver does), per the two drivers' differing
// reduction schedules.
func update(env *envwrap.EnvWrapper, gamma vecops.Point, state string, action int) (*bounds.Bounds, error) {
	successors, err := env.Transition(state, action)
	if err != nil {
		return nil, fmt.Errorf("solver: transition(%q, %d): %w", state, action, err)
	}

	succStates := make([]string, 0, len(successors))
	for s := range successors {
		succStates = append(succStates, s)
	}
	sort.Strings(succStates) // deterministic iteration order

	succBounds := make([]*bounds.Bounds, len(succStates))
	weights := make([]float64, len(succStates))
	for i, s := range succStates {
		env.Discover(s)
		succBounds[i] = env.StateBound(s)
		weights[i] = successors[s]
	}

	combined := bounds.SumSuccessors(succBounds, weights)
	combined.Multiply(gamma)
	combined.Shift(env.ExpectedReward(state, action))
	return combined, nil
}

// unionStateBound rebuilds a state's own Bounds from the union of its
// actions' current Bounds vertices — lower with lower, upper with upper —
// the step that propagates per-action improvements up to the state level.
// The returned curves are not normalized; EnvWrapper.SetStateBound applies
// the hull (and the lower curve's closure) when storing them.
func unionStateBound(dim int, actionBounds []*bounds.Bounds) *bounds.Bounds {
	var lowerPts, upperPts []vecops.Point
	for _, ab := range actionBounds {
		lowerPts = append(lowerPts, ab.Lower.Vertices...)
		upperPts = append(upperPts, ab.Upper.Vertices...)
	}
	return bounds.New(pareto.New(dim, lowerPts), pareto.New(dim, upperPts))
}

// orientedRewardRange returns the oriented (already Minimize-negated)
// asymptotic per-step discounted reward range, used as the reference
// corner for downward closure and as the initial-state convergence check's
// frame of reference.
func orientedRewardRange(env *envwrap.EnvWrapper) (vecops.Point, vecops.Point) {
	return env.MinMaxDiscountedReward()
}

// referencePoint derives the downward-closure reference corner from the
// environment's discounted reward range: the componentwise minimum
// infinite-horizon discounted reward r_min/(1-gamma), as returned by
// EnvWrapper.MinMaxDiscountedReward (no rounding is applied).
func referencePoint(env *envwrap.EnvWrapper) vecops.Point {
	min, _ := orientedRewardRange(env)
	return min
}
