// Package envwrap adapts a raw mdpapi.EnvironmentAPI into an arena of
// lazily-discovered per-state and per-(state,action) Bounds, guarded by a
// single sync.RWMutex in the manner of core.Graph's vertex/edge maps: one
// lock is enough here since the solver itself serializes every mutation,
// and the lock exists only so a telemetry goroutine can read statistics
// concurrently with an in-progress solve.
package envwrap

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/go-pareto/chvi/bounds"
	"github.com/go-pareto/chvi/mdpapi"
	"github.com/go-pareto/chvi/pareto"
	"github.com/go-pareto/chvi/telemetry"
	"github.com/go-pareto/chvi/vecops"
)

// record is one arena entry: a state's own Bounds plus the Bounds of every
// action available from it, and the visit counters that WriteStatistics
// reports to telemetry.
type record struct {
	bound       *bounds.Bounds
	actionBound map[int]*bounds.Bounds
	visitCount  int
	actionVisit map[int]int
	terminal    bool
}

// EnvWrapper owns an mdpapi.EnvironmentAPI plus the discovered-state arena,
// the resolved ExplorationSettings, and a process-owned PRNG used by the
// BRTDP trajectory sampler.
type EnvWrapper struct {
	muRecords sync.RWMutex // guards records

	env      mdpapi.EnvironmentAPI
	settings mdpapi.ExplorationSettings
	rng      *rand.Rand

	records map[string]*record
	dim     int
}

// New wraps env with the given settings. The settings' Directions
// determine, per objective, whether that objective's reward is negated on
// ingestion — the solvers always internally maximize.
func New(env mdpapi.EnvironmentAPI, settings mdpapi.ExplorationSettings) *EnvWrapper {
	return &EnvWrapper{
		env:      env,
		settings: settings,
		rng:      rand.New(rand.NewSource(settings.Seed)),
		records:  make(map[string]*record),
		dim:      len(settings.Discount),
	}
}

// orient applies the configured Direction to a raw reward vector, negating
// any component marked Minimize so the solver always sees a maximization
// problem.
func (w *EnvWrapper) orient(reward []float64) vecops.Point {
	p := make(vecops.Point, len(reward))
	for i, r := range reward {
		if i < len(w.settings.Directions) && w.settings.Directions[i] == mdpapi.Minimize {
			p[i] = -r
		} else {
			p[i] = r
		}
	}
	return p
}

// Discover returns the Bounds for state, creating and seeding it from the
// configured initial (or terminal) bound vectors on first sight.
func (w *EnvWrapper) Discover(state string) *bounds.Bounds {
	w.muRecords.Lock()
	defer w.muRecords.Unlock()

	if r, ok := w.records[state]; ok {
		return r.bound
	}

	terminal := w.env.IsTerminal(state)
	lowerSeed, upperSeed := w.settings.InitialLowerBound, w.settings.InitialUpperBound
	if terminal {
		lowerSeed, upperSeed = w.settings.TerminalLowerBound, w.settings.TerminalUpperBound
	}
	if len(lowerSeed) == 0 || len(upperSeed) == 0 {
		// spec.md §3/§4.4: absent a configured initial (or terminal) bound
		// vector, seed from the min/max infinite-discounted reward,
		// r_min/(1-gamma) and r_max/(1-gamma) componentwise.
		fallbackMin, fallbackMax := w.MinMaxDiscountedReward()
		lowerSeed, upperSeed = []float64(fallbackMin), []float64(fallbackMax)
	}

	b := bounds.New(
		pareto.New(w.dim, []vecops.Point{vecops.Point(append([]float64(nil), lowerSeed...))}),
		pareto.New(w.dim, []vecops.Point{vecops.Point(append([]float64(nil), upperSeed...))}),
	)
	w.records[state] = &record{
		bound:       b,
		actionBound: make(map[int]*bounds.Bounds),
		actionVisit: make(map[int]int),
		terminal:    terminal,
	}
	return b
}

// StateBound returns the current Bounds for an already-discovered state.
// Panics if state has not been passed to Discover.
func (w *EnvWrapper) StateBound(state string) *bounds.Bounds {
	w.muRecords.RLock()
	defer w.muRecords.RUnlock()

	r, ok := w.records[state]
	if !ok {
		panic(fmt.Sprintf("envwrap: state %q not discovered", state))
	}
	return r.bound
}

// StateActionBound returns the Bounds for (state, action), lazily seeding
// it from the state's own current Bounds the first time it is requested.
func (w *EnvWrapper) StateActionBound(state string, action int) *bounds.Bounds {
	w.muRecords.Lock()
	defer w.muRecords.Unlock()

	r, ok := w.records[state]
	if !ok {
		panic(fmt.Sprintf("envwrap: state %q not discovered", state))
	}
	if b, ok := r.actionBound[action]; ok {
		return b
	}
	b := r.bound.Clone()
	r.actionBound[action] = b
	return b
}

// SetBound replaces the Bounds for (state, action), Pareto-reducing it
// against the caller-supplied reference corner ref before storing it, and
// increments that action's visit counter.
func (w *EnvWrapper) SetBound(state string, action int, b *bounds.Bounds, ref vecops.Point, eps float64) {
	w.muRecords.Lock()
	defer w.muRecords.Unlock()

	r, ok := w.records[state]
	if !ok {
		panic(fmt.Sprintf("envwrap: state %q not discovered", state))
	}
	b.Pareto(ref, eps)
	r.actionBound[action] = b
	r.actionVisit[action]++
	r.visitCount++
}

// SetStateBound replaces a state's own Bounds — computed by the caller as
// the union hull of its action Bounds — Pareto-reducing it first.
func (w *EnvWrapper) SetStateBound(state string, b *bounds.Bounds, ref vecops.Point, eps float64) {
	w.muRecords.Lock()
	defer w.muRecords.Unlock()

	r, ok := w.records[state]
	if !ok {
		panic(fmt.Sprintf("envwrap: state %q not discovered", state))
	}
	b.Pareto(ref, eps)
	r.bound = b
}

// ExpectedReward returns the oriented expected immediate reward of
// (state, action): the environment's raw Reward vector, negated per
// Direction for any Minimize objective.
func (w *EnvWrapper) ExpectedReward(state string, action int) vecops.Point {
	return w.orient(w.env.Reward(state, action))
}

// Transition returns the successor distribution for (state, action).
func (w *EnvWrapper) Transition(state string, action int) (map[string]float64, error) {
	return w.env.Transition(state, action)
}

// Actions returns the actions available from state.
func (w *EnvWrapper) Actions(state string) []int {
	return w.env.Actions(state)
}

// IsTerminal reports whether state is terminal.
func (w *EnvWrapper) IsTerminal(state string) bool {
	return w.env.IsTerminal(state)
}

// CurrentState delegates to the wrapped environment.
func (w *EnvWrapper) CurrentState() string {
	return w.env.CurrentState()
}

// Reset delegates to the wrapped environment.
func (w *EnvWrapper) Reset(seed int64) (string, error) {
	return w.env.Reset(seed)
}

// Rand returns the wrapper's process-owned PRNG, for solvers that need to
// sample a trajectory (successor draws, action-tie breaking).
func (w *EnvWrapper) Rand() *rand.Rand {
	return w.rng
}

// OrientedRewardRange returns the environment's raw (undiscounted) reward
// range, oriented per Direction — the per-episode epsilon-termination
// check in the BRTDP trajectory sampler needs the undiscounted magnitude,
// applying gamma^depth itself.
func (w *EnvWrapper) OrientedRewardRange() (vecops.Point, vecops.Point) {
	rawMin, rawMax := w.env.RewardRange()
	min, max := w.orient(rawMin), w.orient(rawMax)
	for i := range min {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return min, max
}

// infiniteHorizon returns r/(1-gamma) componentwise: the infinite-horizon
// discounted sum of a constant per-step reward r, used throughout as the
// asymptotic bound on achievable discounted return.
func infiniteHorizon(r, gamma vecops.Point) vecops.Point {
	out := make(vecops.Point, len(r))
	for i := range r {
		out[i] = r[i] / (1 - gamma[i])
	}
	return out
}

// MinMaxDiscountedReward returns the componentwise min and max of
// reward_min/(1-gamma) and reward_max/(1-gamma) — the infinite-horizon
// discounted reward range spec.md §4.4 defines as min_max_discounted_reward,
// used to seed Minkowski-sum reference points during BRTDP termination
// checks.
func (w *EnvWrapper) MinMaxDiscountedReward() (vecops.Point, vecops.Point) {
	rawMin, rawMax := w.env.RewardRange()
	min, max := w.orient(rawMin), w.orient(rawMax)
	for i := range min {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	gamma := vecops.Point(w.settings.Discount)
	return infiniteHorizon(min, gamma), infiniteHorizon(max, gamma)
}

// DiscoveredCount returns the number of states seen so far via Discover.
func (w *EnvWrapper) DiscoveredCount() int {
	w.muRecords.RLock()
	defer w.muRecords.RUnlock()
	return len(w.records)
}

// WriteStatistics emits one telemetry event per discovered state
// (visit count, per-action visit counts, and current Hausdorff gap),
// optionally skipping the per-action breakdown when includeTimings is
// false (used for a lighter-weight mid-solve trace).
func (w *EnvWrapper) WriteStatistics(tel *telemetry.Collector, includeTimings bool) {
	w.muRecords.RLock()
	defer w.muRecords.RUnlock()

	for state, r := range w.records {
		tel.StateVisited(state, r.visitCount, r.bound.HausdorffDistance())
		if !includeTimings {
			continue
		}
		for action, count := range r.actionVisit {
			tel.ActionVisited(state, action, count)
		}
	}
}
