// Package mdpfile parses the explicit MDP file format: a transition file of
// whitespace-separated (source_state, action, successor, probability)
// triplets and one-or-more reward files of the same shape carrying a
// reward_value in place of a probability, one file per objective
// dimension. Rewards are collapsed from (s,a,s') to (s,a) expectations
// weighted by the transition distribution, matching
// original_source/src/parser.cpp's collaborator.
package mdpfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-pareto/chvi/mdpapi"
)

// ParseError reports the line number and cause of a malformed input line.
// It wraps mdpapi.ErrParse so callers can test with errors.Is.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mdpfile: %s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return mdpapi.ErrParse }

func parseErrorf(file string, line int, format string, args ...any) error {
	return &ParseError{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// triplet is one (action, successor) -> value entry for a source state.
type triplet struct {
	action    int
	successor string
	value     float64
}

// ParseTransitionFile reads a transition file and returns, per source
// state, the list of (action, successor, probability) triplets in file
// order. Probabilities for a given (state, action) must sum to
// approximately 1; a mismatch is a *ParseError.
func ParseTransitionFile(path string) (map[string][]triplet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mdpfile: open %s: %w", path, mdpapi.ErrParse)
	}
	defer f.Close()

	triplets, err := scanTriplets(f, path)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]map[int]float64)
	for state, entries := range triplets {
		for _, t := range entries {
			if sums[state] == nil {
				sums[state] = make(map[int]float64)
			}
			sums[state][t.action] += t.value
		}
	}
	for state, byAction := range sums {
		for action, sum := range byAction {
			if !approxOne(sum) {
				return nil, parseErrorf(path, 0, "state %q action %d transition probabilities sum to %g, want 1", state, action, sum)
			}
		}
	}
	return triplets, nil
}

// ParseRewardFile reads one reward-dimension file and returns, per source
// state, the list of (action, successor, reward_value) triplets in file
// order.
func ParseRewardFile(path string) (map[string][]triplet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mdpfile: open %s: %w", path, mdpapi.ErrParse)
	}
	defer f.Close()
	return scanTriplets(f, path)
}

func scanTriplets(r io.Reader, path string) (map[string][]triplet, error) {
	result := make(map[string][]triplet)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, parseErrorf(path, lineNum, "expected 4 whitespace-separated fields, got %d", len(fields))
		}
		state, actionTok, successor, valueTok := fields[0], fields[1], fields[2], fields[3]
		action, err := strconv.Atoi(actionTok)
		if err != nil {
			return nil, parseErrorf(path, lineNum, "action %q is not an integer", actionTok)
		}
		value, err := strconv.ParseFloat(valueTok, 64)
		if err != nil {
			return nil, parseErrorf(path, lineNum, "value %q is not a float", valueTok)
		}
		result[state] = append(result[state], triplet{action: action, successor: successor, value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mdpfile: reading %s: %w", path, err)
	}
	return result, nil
}

func approxOne(sum float64) bool {
	const tol = 1e-6
	d := sum - 1.0
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// Build parses transitionPath and one reward file per objective dimension
// (rewardPaths, in dimension order), collapsing (s,a,s') rewards to (s,a)
// expectations weighted by the transition distribution, and returns a
// ready-to-use *SparseMDP whose current state (and Reset state) is the
// designated initialState.
func Build(transitionPath string, rewardPaths []string, initialState string) (*SparseMDP, error) {
	transitions, err := ParseTransitionFile(transitionPath)
	if err != nil {
		return nil, err
	}

	dim := len(rewardPaths)
	rewardsByDim := make([]map[string][]triplet, dim)
	for i, path := range rewardPaths {
		r, err := ParseRewardFile(path)
		if err != nil {
			return nil, err
		}
		rewardsByDim[i] = r
	}

	states := make(map[string]bool)
	actionsByState := make(map[string]map[int]bool)
	transProbs := make(map[string]map[int]map[string]float64)
	for state, entries := range transitions {
		states[state] = true
		if actionsByState[state] == nil {
			actionsByState[state] = make(map[int]bool)
		}
		if transProbs[state] == nil {
			transProbs[state] = make(map[int]map[string]float64)
		}
		for _, t := range entries {
			states[t.successor] = true
			actionsByState[state][t.action] = true
			if transProbs[state][t.action] == nil {
				transProbs[state][t.action] = make(map[string]float64)
			}
			transProbs[state][t.action][t.successor] = t.value
		}
	}

	rewards := make(map[string]map[int][]float64)
	for d, byState := range rewardsByDim {
		for state, entries := range byState {
			weights := transProbs[state]
			for _, t := range entries {
				if weights == nil || weights[t.action] == nil {
					return nil, parseErrorf(rewardPaths[d], 0, "reward for state %q action %d has no matching transition", state, t.action)
				}
				prob, ok := weights[t.action][t.successor]
				if !ok {
					continue
				}
				if rewards[state] == nil {
					rewards[state] = make(map[int][]float64)
				}
				if rewards[state][t.action] == nil {
					rewards[state][t.action] = make([]float64, dim)
				}
				rewards[state][t.action][d] += prob * t.value
			}
		}
	}

	if !states[initialState] {
		return nil, parseErrorf(transitionPath, 0, "initial state %q never appears in the transition file", initialState)
	}

	return &SparseMDP{
		dim:         dim,
		transitions: transProbs,
		actions:     actionsByState,
		rewards:     rewards,
		initial:     initialState,
		current:     initialState,
	}, nil
}

// SparseMDP is an mdpapi.EnvironmentAPI built from an explicit transition
// tensor plus collapsed (s,a) reward vectors. A state with no outgoing
// actions is terminal.
type SparseMDP struct {
	dim         int
	transitions map[string]map[int]map[string]float64
	actions     map[string]map[int]bool
	rewards     map[string]map[int][]float64
	initial     string
	current     string
	seed        int64
}

func (m *SparseMDP) CurrentState() string { return m.current }

func (m *SparseMDP) Actions(state string) []int {
	byAction, ok := m.actions[state]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(byAction))
	for a := range byAction {
		out = append(out, a)
	}
	sort.Ints(out)
	return out
}

func (m *SparseMDP) Transition(state string, action int) (map[string]float64, error) {
	byAction, ok := m.transitions[state]
	if !ok {
		return nil, fmt.Errorf("mdpfile: state %q has no transitions: %w", state, mdpapi.ErrParse)
	}
	dist, ok := byAction[action]
	if !ok {
		return nil, fmt.Errorf("mdpfile: state %q has no action %d: %w", state, action, mdpapi.ErrParse)
	}
	return dist, nil
}

func (m *SparseMDP) Reward(state string, action int) []float64 {
	if r, ok := m.rewards[state][action]; ok {
		return r
	}
	return make([]float64, m.dim)
}

func (m *SparseMDP) RewardRange() (min, max []float64) {
	min = make([]float64, m.dim)
	max = make([]float64, m.dim)
	first := true
	for _, byAction := range m.rewards {
		for _, r := range byAction {
			for i, v := range r {
				if first {
					min[i], max[i] = v, v
					continue
				}
				if v < min[i] {
					min[i] = v
				}
				if v > max[i] {
					max[i] = v
				}
			}
			first = false
		}
	}
	return min, max
}

func (m *SparseMDP) Step(action int) (string, []float64, bool, error) {
	dist, err := m.Transition(m.current, action)
	if err != nil {
		return "", nil, false, err
	}
	reward := m.Reward(m.current, action)

	states := make([]string, 0, len(dist))
	for s := range dist {
		states = append(states, s)
	}
	sort.Strings(states)

	r := pseudoRand(&m.seed)
	var cum float64
	next := states[len(states)-1]
	for _, s := range states {
		cum += dist[s]
		if r <= cum {
			next = s
			break
		}
	}
	m.current = next
	return next, reward, m.IsTerminal(next), nil
}

func (m *SparseMDP) Reset(seed int64) (string, error) {
	m.seed = seed
	m.current = m.initial
	return m.current, nil
}

func (m *SparseMDP) IsTerminal(state string) bool {
	byAction, ok := m.actions[state]
	return !ok || len(byAction) == 0
}

// pseudoRand advances a simple linear congruential state and returns a
// value in [0,1). SparseMDP.Step only needs a deterministic, dependency-free
// sampler for its own bookkeeping — solvers never call Step directly, they
// drive the MDP through mdpapi.EnvironmentAPI.Transition instead.
func pseudoRand(state *int64) float64 {
	*state = (*state*6364136223846793005 + 1442695040888963407)
	return float64(uint64(*state)>>11) / (1 << 53)
}
