package solver

import (
	"math"
	"time"

	"github.com/go-pareto/chvi/bounds"
	"github.com/go-pareto/chvi/envwrap"
	"github.com/go-pareto/chvi/mdpapi"
	"github.com/go-pareto/chvi/telemetry"
	"github.com/go-pareto/chvi/vecops"
)

// successorGapDelta is the minimum Hausdorff gap a sampled successor must
// still have for a BRTDP trajectory to keep descending; below this, the
// successor's bound is considered numerically converged and continuing
// the trajectory would only add noise.
const successorGapDelta = 1e-12

// BRTDPSolver implements bounded real-time dynamic programming: repeated
// trajectory sampling from the initial state, each trajectory choosing its
// next action and successor via the configured heuristics, descending
// until a termination condition fires, then backing the trajectory's
// (state,action) stack up via update(s,a) — each step's update is
// immediately Pareto-reduced before being stored, unlike CHVISolver, which
// defers reduction to SetBound alone (see original_source/include/
// solvers/brtdp.hpp's explicit pareto() call before set_bound).
type BRTDPSolver struct {
	env      *envwrap.EnvWrapper
	settings mdpapi.ExplorationSettings
	tel      *telemetry.Collector
	updates  int
}

// NewBRTDPSolver constructs a BRTDPSolver over env with settings. tel may
// be nil, in which case telemetry.Discard() is used.
func NewBRTDPSolver(env *envwrap.EnvWrapper, settings mdpapi.ExplorationSettings, tel *telemetry.Collector) *BRTDPSolver {
	if tel == nil {
		tel = telemetry.Discard()
	}
	return &BRTDPSolver{env: env, settings: settings, tel: tel}
}

// stackEntry is one (state, action) pair visited by a trajectory, in the
// order it was visited — backed up in reverse once the trajectory ends.
type stackEntry struct {
	state  string
	action int
}

// Solve runs BRTDP starting from start.
func (s *BRTDPSolver) Solve(start string) (Result, error) {
	started := time.Now()
	s.env.Discover(start)

	gamma := vecops.Point(s.settings.Discount)
	ref := referencePoint(s.env)
	rawMin, rawMax := s.env.OrientedRewardRange()
	rMax := make(vecops.Point, len(gamma))
	for i := range rMax {
		rMax[i] = math.Max(math.Abs(rawMin[i]), math.Abs(rawMax[i]))
	}

	maxEpisodes := s.settings.MaxEpisodes
	if maxEpisodes <= 0 {
		maxEpisodes = 10000
	}
	maxDepth := s.settings.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1000
	}

	converged := false
	episode := 0
	for ; episode < maxEpisodes; episode++ {
		s.tel.EpisodeStarted(episode, start)

		depth, terminatedEarly := s.runTrajectory(start, gamma, ref, rMax, maxDepth)
		s.tel.EpisodeFinished(episode, depth, terminatedEarly)

		gap := s.env.StateBound(start).HausdorffDistance()
		if gap < s.settings.Precision {
			converged = true
			episode++
			break
		}
	}

	s.tel.Converged("BRTDP", converged, time.Since(started))
	if !converged {
		s.tel.Nonconvergence("BRTDP", maxEpisodes)
	}

	return Result{
		InitialBound: s.env.StateBound(start),
		Converged:    converged,
		Updates:      s.updates,
	}, nil
}

// runTrajectory descends from start until a termination condition fires,
// then backs the visited (state,action) stack up in reverse. Returns the
// depth reached and whether the trajectory ended via a termination
// condition other than hitting a genuinely terminal state.
func (s *BRTDPSolver) runTrajectory(start string, gamma, ref, rMax vecops.Point, maxDepth int) (int, bool) {
	var stack []stackEntry
	state := start
	depth := 0
	terminatedEarly := false

	for {
		if s.env.IsTerminal(state) {
			break
		}
		if depth >= maxDepth {
			terminatedEarly = true
			break
		}
		if depth >= s.settings.MinDepth && epsilonExhausted(gamma, depth, rMax, s.settings.Precision) {
			terminatedEarly = true
			break
		}

		action := s.chooseAction(state)
		successors, err := s.env.Transition(state, action)
		if err != nil || len(successors) == 0 {
			terminatedEarly = true
			break
		}

		for succ := range successors {
			s.env.Discover(succ)
		}
		next := s.chooseSuccessor(successors)
		stack = append(stack, stackEntry{state: state, action: action})

		gap := s.env.StateBound(next).HausdorffDistance()
		state = next
		depth++
		if gap < successorGapDelta {
			terminatedEarly = true
			break
		}
	}

	s.backup(stack, gamma, ref)
	return depth, terminatedEarly
}

// backup recomputes and stores the Bounds for every (state,action) on the
// trajectory stack, from the most recently visited back to the first,
// then refreshes each visited state's own Bounds as the union hull of all
// of its actions' Bounds.
func (s *BRTDPSolver) backup(stack []stackEntry, gamma, ref vecops.Point) {
	dim := len(gamma)
	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]
		combined, err := update(s.env, gamma, entry.state, entry.action)
		if err != nil {
			continue
		}
		combined.Pareto(ref, s.settings.Precision)
		s.env.SetBound(entry.state, entry.action, combined, ref, s.settings.Precision)
		s.updates++

		actions := s.env.Actions(entry.state)
		actionBounds := make([]*bounds.Bounds, len(actions))
		for j, a := range actions {
			actionBounds[j] = s.env.StateActionBound(entry.state, a)
		}
		s.env.SetStateBound(entry.state, unionStateBound(dim, actionBounds), ref, s.settings.Precision)
	}
}

// chooseAction selects the next action from state per the configured
// ActionHeuristic. ActionHypervolume falls back to the same
// dominance-filtered selection as ActionPareto: no hypervolume computation
// is wired (see mdpapi.ActionHypervolume's doc comment), so the two
// heuristics coincide here.
func (s *BRTDPSolver) chooseAction(state string) int {
	actions := s.env.Actions(state)
	if len(actions) == 1 {
		return actions[0]
	}
	if s.settings.ActionHeuristic == mdpapi.ActionUniform {
		return actions[s.env.Rand().Intn(len(actions))]
	}

	candidates := paretoCandidateActions(s.env, state, actions)
	return candidates[s.env.Rand().Intn(len(candidates))]
}

// paretoCandidateActions implements spec.md §4.5.1's Pareto action
// heuristic: collect the union of every action's upper-bound vertices,
// brute-force-remove the strictly dominated ones (O(A*V^2)), and return
// the actions that contributed at least one surviving vertex. Vertices of
// the same action are compared with each other as well. Falls back to the
// full action list when no action has any upper-bound vertex; with at
// least one vertex, strict dominance always leaves a survivor.
func paretoCandidateActions(env *envwrap.EnvWrapper, state string, actions []int) []int {
	type taggedVertex struct {
		pt     vecops.Point
		action int
	}
	var all []taggedVertex
	for _, a := range actions {
		for _, v := range env.StateActionBound(state, a).Upper.Vertices {
			all = append(all, taggedVertex{pt: v, action: a})
		}
	}

	survives := make(map[int]bool, len(actions))
	for i, t := range all {
		dominated := false
		for j, o := range all {
			if i == j {
				continue
			}
			if dominatesPoint(o.pt, t.pt) {
				dominated = true
				break
			}
		}
		if !dominated {
			survives[t.action] = true
		}
	}

	var candidates []int
	for _, a := range actions {
		if survives[a] {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return actions
	}
	return candidates
}

// dominatesPoint reports whether a strictly Pareto-dominates b: a is
// componentwise >= b with at least one strictly greater component.
func dominatesPoint(a, b vecops.Point) bool {
	strictlyGreater := false
	for i := range a {
		if a[i] < b[i] {
			return false
		}
		if a[i] > b[i] {
			strictlyGreater = true
		}
	}
	return strictlyGreater
}

// chooseSuccessor selects the next state from a (state,action)'s successor
// distribution per the configured StateHeuristic.
func (s *BRTDPSolver) chooseSuccessor(successors map[string]float64) string {
	if s.settings.StateHeuristic == mdpapi.StateUniform {
		return s.sampleCategorical(successors)
	}

	best := ""
	bestScore := math.Inf(-1)
	for state, prob := range successors {
		score := prob * s.env.StateBound(state).HausdorffDistance()
		if score > bestScore {
			bestScore = score
			best = state
		}
	}
	return best
}

func (s *BRTDPSolver) sampleCategorical(dist map[string]float64) string {
	pick := s.env.Rand().Float64()
	var cum float64
	var last string
	for state, prob := range dist {
		last = state
		cum += prob
		if pick <= cum {
			return state
		}
	}
	return last
}

// epsilonExhausted reports whether, for every objective i,
// gamma[i]^depth * rMax[i] has fallen below eps — the point at which
// further trajectory depth cannot meaningfully change the return estimate.
func epsilonExhausted(gamma vecops.Point, depth int, rMax vecops.Point, eps float64) bool {
	for i := range gamma {
		if math.Pow(gamma[i], float64(depth))*rMax[i] >= eps {
			return false
		}
	}
	return true
}
