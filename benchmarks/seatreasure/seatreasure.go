package seatreasure

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Direction indexes the four grid moves. Action indices handed to
// mdpapi.EnvironmentAPI methods are exactly these values, filtered per
// state to the moves that stay on the grid.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var deltas = map[Direction]cell{
	Up:    {0, -1},
	Down:  {0, 1},
	Left:  {-1, 0},
	Right: {1, 0},
}

// SeaTreasure is an mdpapi.EnvironmentAPI over a Map: the agent starts at
// (0,0) and moves one square per step until it reaches a treasure square,
// at which point the episode is terminal. Every step costs FuelPerTurn
// (negative) in the second reward objective; the first objective is the
// treasure value collected, paid out once on arrival.
type SeaTreasure struct {
	m           *Map
	FuelPerTurn float64

	current   cell
	collected bool
	rng       *rand.Rand
}

// New constructs a SeaTreasure over m with the standard fuel penalty of -1
// per turn and the agent starting at the top-left square (0,0).
func New(m *Map) *SeaTreasure {
	return &SeaTreasure{
		m:           m,
		FuelPerTurn: -1,
		current:     cell{0, 0},
		rng:         rand.New(rand.NewSource(1)),
	}
}

func encodeState(c cell, collected bool) string {
	return fmt.Sprintf("%d,%d,%t", c.x, c.y, collected)
}

func decodeState(state string) (cell, bool) {
	parts := strings.Split(state, ",")
	x, _ := strconv.Atoi(parts[0])
	y, _ := strconv.Atoi(parts[1])
	collected := parts[2] == "true"
	return cell{x, y}, collected
}

func (s *SeaTreasure) CurrentState() string {
	return encodeState(s.current, s.collected)
}

// Actions returns, for a non-terminal state, the directions that stay
// within the grid and off a blocked square, sorted by Direction value.
func (s *SeaTreasure) Actions(state string) []int {
	pos, collected := decodeState(state)
	if collected {
		return nil
	}
	var out []int
	for _, d := range []Direction{Up, Down, Left, Right} {
		if s.m.passable(cell{pos.x + deltas[d].x, pos.y + deltas[d].y}) {
			out = append(out, int(d))
		}
	}
	sort.Ints(out)
	return out
}

func (s *SeaTreasure) successor(state string, action int) (cell, bool) {
	pos, _ := decodeState(state)
	delta := deltas[Direction(action)]
	next := cell{pos.x + delta.x, pos.y + delta.y}
	_, isTreasure := s.m.treasures[next]
	return next, isTreasure
}

// Transition is deterministic: the chosen direction always succeeds,
// landing the agent on the adjacent square and marking it terminal if
// that square holds a treasure.
func (s *SeaTreasure) Transition(state string, action int) (map[string]float64, error) {
	_, collected := decodeState(state)
	if collected {
		return map[string]float64{state: 1.0}, nil
	}
	next, isTreasure := s.successor(state, action)
	return map[string]float64{encodeState(next, isTreasure): 1.0}, nil
}

// Reward returns the treasure value collected by moving into the
// successor square (zero if it holds none, and always zero once the
// episode has already terminated) alongside the fixed fuel penalty.
func (s *SeaTreasure) Reward(state string, action int) []float64 {
	_, collected := decodeState(state)
	if collected {
		return []float64{0, 0}
	}
	next, _ := s.successor(state, action)
	return []float64{s.m.treasures[next], s.FuelPerTurn}
}

// RewardRange returns (0, fuel_per_turn) to (max_treasure_value, 0), the
// achievable componentwise extremes of a single-step reward.
func (s *SeaTreasure) RewardRange() (min, max []float64) {
	return []float64{0, s.FuelPerTurn}, []float64{s.m.maxTreasureValue(), 0}
}

func (s *SeaTreasure) Step(action int) (string, []float64, bool, error) {
	state := s.CurrentState()
	reward := s.Reward(state, action)
	dist, err := s.Transition(state, action)
	if err != nil {
		return "", nil, false, err
	}

	states := make([]string, 0, len(dist))
	for k := range dist {
		states = append(states, k)
	}
	sort.Strings(states)
	pick := s.rng.Float64()
	var cum float64
	next := states[len(states)-1]
	for _, k := range states {
		cum += dist[k]
		if pick <= cum {
			next = k
			break
		}
	}

	pos, collected := decodeState(next)
	s.current, s.collected = pos, collected
	return next, reward, s.IsTerminal(next), nil
}

func (s *SeaTreasure) Reset(seed int64) (string, error) {
	s.current = cell{0, 0}
	s.collected = false
	s.rng = rand.New(rand.NewSource(seed))
	return s.CurrentState(), nil
}

func (s *SeaTreasure) IsTerminal(state string) bool {
	_, collected := decodeState(state)
	return collected
}
