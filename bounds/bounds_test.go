package bounds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pareto/chvi/bounds"
	"github.com/go-pareto/chvi/pareto"
	"github.com/go-pareto/chvi/vecops"
)

func curve(dim int, coords ...[]float64) *pareto.Curve {
	pts := make([]vecops.Point, len(coords))
	for i, c := range coords {
		pts[i] = vecops.Point(c)
	}
	return pareto.New(dim, pts)
}

func TestHausdorffDistanceCachesAndInvalidates(t *testing.T) {
	lower := curve(2, []float64{0, 0}, []float64{5, 5})
	upper := curve(2, []float64{0, 10}, []float64{10, 0})

	b := bounds.New(lower, upper)
	b.Pareto(vecops.Point{0, 0}, vecops.Epsilon)

	d1 := b.HausdorffDistance()
	assert.Greater(t, d1, 0.0)

	// second call must hit the cache and return the identical value
	d2 := b.HausdorffDistance()
	assert.Equal(t, d1, d2)

	// scaling both curves by 2 doubles every distance, so a stale cache
	// would show up as d1 instead of 2*d1 (a Shift would leave the gap
	// unchanged and could not tell the two apart)
	b.Multiply(vecops.Point{2, 2})
	d3 := b.HausdorffDistance()
	assert.InDelta(t, 2*d1, d3, 1e-9)
}

func TestFurthestPointsNonNilAfterCompute(t *testing.T) {
	lower := curve(2, []float64{0, 0}, []float64{5, 5})
	upper := curve(2, []float64{0, 10}, []float64{10, 0})

	b := bounds.New(lower, upper)
	b.Pareto(vecops.Point{0, 0}, vecops.Epsilon)

	pts := b.FurthestPoints()
	require.NotEmpty(t, pts)
}

func TestMultiplyAndShiftInvalidateCache(t *testing.T) {
	lower := curve(1, []float64{1})
	upper := curve(1, []float64{2})

	b := bounds.New(lower, upper)
	b.Pareto(vecops.Point{0}, vecops.Epsilon)
	_ = b.HausdorffDistance()

	b.Multiply(vecops.Point{2})
	assert.InDelta(t, 2.0, b.Lower.Vertices[0][0], 1e-9)
	assert.InDelta(t, 4.0, b.Upper.Vertices[0][0], 1e-9)
	// the cached gap was 1 (2-1); after Multiply it must be recomputed as 2
	assert.InDelta(t, 2.0, b.HausdorffDistance(), 1e-9)

	b.ScalarMultiply(3)
	b.Shift(vecops.Point{1})
	assert.InDelta(t, 7.0, b.Lower.Vertices[0][0], 1e-9)
	assert.InDelta(t, 13.0, b.Upper.Vertices[0][0], 1e-9)
	// the cached gap was 2; ScalarMultiply then Shift must give 13-7 = 6
	assert.InDelta(t, 6.0, b.HausdorffDistance(), 1e-9)
}

func TestSumSuccessorsCombinesLowerAndUpper(t *testing.T) {
	a := bounds.New(curve(2, []float64{0, 2}, []float64{2, 0}).UpperRightHull(vecops.Epsilon),
		curve(2, []float64{0, 3}, []float64{3, 0}).UpperRightHull(vecops.Epsilon))
	c := bounds.New(curve(2, []float64{0, 1}, []float64{1, 0}).UpperRightHull(vecops.Epsilon),
		curve(2, []float64{0, 1}, []float64{1, 0}).UpperRightHull(vecops.Epsilon))

	sum := bounds.SumSuccessors([]*bounds.Bounds{a, c}, []float64{1, 1})

	require.NotEmpty(t, sum.Lower.Vertices)
	require.NotEmpty(t, sum.Upper.Vertices)
}

func TestCloneIsIndependent(t *testing.T) {
	lower := curve(1, []float64{1})
	upper := curve(1, []float64{2})
	b := bounds.New(lower, upper)

	clone := b.Clone()
	clone.Lower.Vertices[0][0] = 99

	assert.InDelta(t, 1.0, b.Lower.Vertices[0][0], 1e-9)
}
