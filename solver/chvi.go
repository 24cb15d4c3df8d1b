package solver

import (
	"fmt"
	"time"

	"github.com/go-pareto/chvi/bounds"
	"github.com/go-pareto/chvi/envwrap"
	"github.com/go-pareto/chvi/mdpapi"
	"github.com/go-pareto/chvi/telemetry"
	"github.com/go-pareto/chvi/vecops"
)

// CHVISolver implements convex hull value iteration: a BFS discovers the
// full reachable set from the initial state once, then update(s,a) is
// swept over every (state, action) pair repeatedly until the initial
// state's Hausdorff gap falls under Precision or MaxSweeps is exhausted.
//
// Unlike BRTDPSolver, a sweep's per-(state,action) update is not
// immediately Pareto-reduced — vertex growth is tolerated across a sweep,
// and reduction happens only inside EnvWrapper.SetBound, matching
// original_source/include/solvers/chvi.hpp, which comments out the
// equivalent mid-sweep pareto() call BRTDP keeps.
type CHVISolver struct {
	env      *envwrap.EnvWrapper
	settings mdpapi.ExplorationSettings
	tel      *telemetry.Collector
}

// NewCHVISolver constructs a CHVISolver over env with settings. tel may be
// nil, in which case telemetry.Discard() is used.
func NewCHVISolver(env *envwrap.EnvWrapper, settings mdpapi.ExplorationSettings, tel *telemetry.Collector) *CHVISolver {
	if tel == nil {
		tel = telemetry.Discard()
	}
	return &CHVISolver{env: env, settings: settings, tel: tel}
}

// reachabilityWalker discovers every state reachable from start via BFS,
// adapted directly from algorithms/bfs.go's walker: a queue of pending
// state keys plus a visited set, generalized from vertex adjacency to
// MDP (state,action)->successor-state adjacency.
type reachabilityWalker struct {
	env     *envwrap.EnvWrapper
	visited map[string]bool
	order   []string
	queue   []string
}

func newReachabilityWalker(env *envwrap.EnvWrapper) *reachabilityWalker {
	return &reachabilityWalker{
		env:     env,
		visited: make(map[string]bool),
	}
}

func (w *reachabilityWalker) init(start string) {
	w.visited[start] = true
	w.env.Discover(start)
	w.queue = append(w.queue, start)
}

func (w *reachabilityWalker) loop() {
	for len(w.queue) > 0 {
		state := w.queue[0]
		w.queue = w.queue[1:]
		w.order = append(w.order, state)
		w.enqueueSuccessors(state)
	}
}

func (w *reachabilityWalker) enqueueSuccessors(state string) {
	if w.env.IsTerminal(state) {
		return
	}
	for _, action := range w.env.Actions(state) {
		successors, err := w.env.Transition(state, action)
		if err != nil {
			continue
		}
		for succ := range successors {
			if w.visited[succ] {
				continue
			}
			w.visited[succ] = true
			w.env.Discover(succ)
			w.queue = append(w.queue, succ)
		}
	}
}

// Solve runs CHVI starting from start.
func (s *CHVISolver) Solve(start string) (Result, error) {
	started := time.Now()

	walker := newReachabilityWalker(s.env)
	walker.init(start)
	walker.loop()

	gamma := vecops.Point(s.settings.Discount)
	ref := referencePoint(s.env)
	dim := len(s.settings.Discount)
	updates := 0

	maxSweeps := s.settings.MaxSweeps
	if maxSweeps <= 0 {
		maxSweeps = 1000
	}

	converged := false
	for sweep := 0; sweep < maxSweeps; sweep++ {
		s.tel.SweepStarted(sweep)

		for _, state := range walker.order {
			if s.env.IsTerminal(state) {
				continue
			}
			actions := s.env.Actions(state)
			actionBounds := make([]*bounds.Bounds, 0, len(actions))
			for _, action := range actions {
				combined, err := update(s.env, gamma, state, action)
				if err != nil {
					return Result{}, fmt.Errorf("solver: chvi update(%q, %d): %w", state, action, err)
				}
				s.env.SetBound(state, action, combined, ref, s.settings.Precision)
				updates++
				actionBounds = append(actionBounds, s.env.StateActionBound(state, action))
			}
			s.env.SetStateBound(state, unionStateBound(dim, actionBounds), ref, s.settings.Precision)
		}

		gap := s.env.StateBound(start).HausdorffDistance()
		s.tel.SweepFinished(sweep, gap)
		if gap < s.settings.Precision {
			converged = true
			break
		}
	}

	s.tel.Converged("CHVI", converged, time.Since(started))
	if !converged {
		s.tel.Nonconvergence("CHVI", maxSweeps)
	}

	return Result{
		InitialBound: s.env.StateBound(start),
		Converged:    converged,
		Updates:      updates,
	}, nil
}
