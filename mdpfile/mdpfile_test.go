package mdpfile_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pareto/chvi/envwrap"
	"github.com/go-pareto/chvi/mdpapi"
	"github.com/go-pareto/chvi/mdpfile"
	"github.com/go-pareto/chvi/solver"
	"github.com/go-pareto/chvi/vecops"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// fiveStateFixture writes the spec.md §8 scenario-1 five-state MDP as
// explicit transition/reward files and returns their paths.
func fiveStateFixture(t *testing.T, dir string) (transitionPath string, rewardPaths []string) {
	t.Helper()
	transitions := `
s0 0 s1 1.0
s0 1 s2 1.0
s1 0 s3 0.5
s1 0 s4 0.5
s2 0 s4 1.0
s3 0 s3 1.0
s4 0 s4 1.0
`
	rewardDim0 := `
s0 0 s1 3
s0 1 s2 1
s1 0 s3 1
s1 0 s4 1
s2 0 s4 1
s3 0 s3 1
s4 0 s4 0
`
	rewardDim1 := `
s0 0 s1 1
s0 1 s2 1
s1 0 s3 1
s1 0 s4 1
s2 0 s4 1
s3 0 s3 0
s4 0 s4 1
`
	transitionPath = writeFile(t, dir, "transitions.txt", transitions)
	r0 := writeFile(t, dir, "reward0.txt", rewardDim0)
	r1 := writeFile(t, dir, "reward1.txt", rewardDim1)
	return transitionPath, []string{r0, r1}
}

func TestBuildFiveStateMDP(t *testing.T) {
	dir := t.TempDir()
	transitionPath, rewardPaths := fiveStateFixture(t, dir)

	env, err := mdpfile.Build(transitionPath, rewardPaths, "s0")
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{0, 1}, env.Actions("s0"))
	assert.Equal(t, []int{0}, env.Actions("s1"))
	assert.False(t, env.IsTerminal("s0"))

	dist, err := env.Transition("s1", 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, dist["s3"], 1e-9)
	assert.InDelta(t, 0.5, dist["s4"], 1e-9)

	assert.Equal(t, []float64{3, 1}, env.Reward("s0", 0))
	assert.Equal(t, []float64{1, 1}, env.Reward("s0", 1))
}

func TestBuildRejectsBadProbabilitySum(t *testing.T) {
	dir := t.TempDir()
	transitions := "s0 0 s1 0.5\ns0 0 s2 0.2\n"
	transitionPath := writeFile(t, dir, "bad.txt", transitions)

	_, err := mdpfile.ParseTransitionFile(transitionPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mdpapi.ErrParse))
}

func TestBuildRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	transitionPath := writeFile(t, dir, "malformed.txt", "s0 0 s1\n")

	_, err := mdpfile.ParseTransitionFile(transitionPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mdpapi.ErrParse))
}

func TestBuildRejectsUnknownInitialState(t *testing.T) {
	dir := t.TempDir()
	transitionPath, rewardPaths := fiveStateFixture(t, dir)

	_, err := mdpfile.Build(transitionPath, rewardPaths, "s999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mdpapi.ErrParse))
}

func TestResetReturnsDesignatedInitialState(t *testing.T) {
	dir := t.TempDir()
	transitionPath, rewardPaths := fiveStateFixture(t, dir)

	env, err := mdpfile.Build(transitionPath, rewardPaths, "s2")
	require.NoError(t, err)

	state, err := env.Reset(42)
	require.NoError(t, err)
	assert.Equal(t, "s2", state)
	assert.Equal(t, "s2", env.CurrentState())
}

// fiveStateSettings returns the ExplorationSettings shared by the two
// end-to-end five-state scenarios below; callers override Discount and
// Precision per scenario.
func fiveStateSettings() mdpapi.ExplorationSettings {
	return mdpapi.ExplorationSettings{
		Directions:         []mdpapi.Direction{mdpapi.Maximize, mdpapi.Maximize},
		InitialLowerBound:  []float64{-50, -50},
		InitialUpperBound:  []float64{50, 50},
		TerminalLowerBound: []float64{-50, -50},
		TerminalUpperBound: []float64{50, 50},
		MaxEpisodes:        20000,
		MaxDepth:           500,
		MinDepth:           1,
		Seed:               0,
	}
}

// assertVertexSetEqual asserts that got is, up to tol and order, exactly
// the point set want.
func assertVertexSetEqual(t *testing.T, want, got []vecops.Point, tol float64) {
	t.Helper()
	if !assert.Len(t, got, len(want), "vertex count mismatch: want %v got %v", want, got) {
		return
	}
	matched := make([]bool, len(got))
	for _, w := range want {
		found := false
		for i, g := range got {
			if matched[i] || !pointsClose(w, g, tol) {
				continue
			}
			matched[i] = true
			found = true
			break
		}
		assert.True(t, found, "expected vertex %v not found in %v", w, got)
	}
}

func pointsClose(a, b vecops.Point, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// TestFiveStateMDPMatchesDocumentedParetoFrontier is scenario 1 from
// spec.md §8: BRTDP on the built-in five-state fixture with
// gamma=(0.75,0.75) to precision 1e-12 converges at s0 to exactly the two
// documented Pareto vertices — one for each of s0's two actions.
func TestFiveStateMDPMatchesDocumentedParetoFrontier(t *testing.T) {
	dir := t.TempDir()
	transitionPath, rewardPaths := fiveStateFixture(t, dir)
	built, err := mdpfile.Build(transitionPath, rewardPaths, "s0")
	require.NoError(t, err)

	settings := fiveStateSettings()
	settings.Discount = []float64{0.75, 0.75}
	settings.Precision = 1e-12

	env := envwrap.New(built, settings)
	res, err := solver.NewBRTDPSolver(env, settings, nil).Solve("s0")
	require.NoError(t, err)
	require.True(t, res.Converged)

	want := []vecops.Point{{4.875, 2.875}, {1.75, 4.0}}
	assertVertexSetEqual(t, want, res.InitialBound.Lower.Vertices, 1e-7)
}

// TestFiveStateMDPWithZeroDiscountCollapsesToImmediateReward is scenario 2
// from spec.md §8: the same MDP with gamma=(0,0) reduces the lower-bound
// vertex set at s0 to the single immediate-reward-optimal vertex, since
// s0's action 0 reward (3,1) weakly dominates action 1's reward (1,1).
func TestFiveStateMDPWithZeroDiscountCollapsesToImmediateReward(t *testing.T) {
	dir := t.TempDir()
	transitionPath, rewardPaths := fiveStateFixture(t, dir)
	built, err := mdpfile.Build(transitionPath, rewardPaths, "s0")
	require.NoError(t, err)

	settings := fiveStateSettings()
	settings.Discount = []float64{0, 0}
	settings.Precision = 1e-9

	env := envwrap.New(built, settings)
	res, err := solver.NewBRTDPSolver(env, settings, nil).Solve("s0")
	require.NoError(t, err)
	require.True(t, res.Converged)

	want := []vecops.Point{{3, 1}}
	assertVertexSetEqual(t, want, res.InitialBound.Lower.Vertices, 1e-7)
}

// TestFiveStateMDPCHVIAndBRTDPAgree checks CHVI's converged lower bound
// at s0 against the same documented vertex set BRTDP converges to,
// exercising the sweep-based solver end-to-end on the same fixture.
func TestFiveStateMDPCHVIAndBRTDPAgree(t *testing.T) {
	dir := t.TempDir()
	transitionPath, rewardPaths := fiveStateFixture(t, dir)
	built, err := mdpfile.Build(transitionPath, rewardPaths, "s0")
	require.NoError(t, err)

	settings := fiveStateSettings()
	settings.Discount = []float64{0.75, 0.75}
	settings.Precision = 1e-9
	settings.MaxSweeps = 2000

	env := envwrap.New(built, settings)
	res, err := solver.NewCHVISolver(env, settings, nil).Solve("s0")
	require.NoError(t, err)
	require.True(t, res.Converged)

	want := []vecops.Point{{4.875, 2.875}, {1.75, 4.0}}
	assertVertexSetEqual(t, want, res.InitialBound.Lower.Vertices, 1e-4)
}
