package pareto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pareto/chvi/pareto"
	"github.com/go-pareto/chvi/vecops"
)

func pts(coords ...[]float64) []vecops.Point {
	out := make([]vecops.Point, len(coords))
	for i, c := range coords {
		out[i] = vecops.Point(c)
	}
	return out
}

func TestUpperRightHull1D(t *testing.T) {
	c := pareto.New(1, pts([]float64{-10}, []float64{-5}, []float64{2}, []float64{10}, []float64{25}))
	c.UpperRightHull(vecops.Epsilon)
	require.Len(t, c.Vertices, 1)
	assert.InDelta(t, 25, c.Vertices[0][0], 1e-9)
}

func TestUpperRightHullColinearChain2D(t *testing.T) {
	c := pareto.New(2, pts(
		[]float64{-10, -10},
		[]float64{2, 2},
		[]float64{5, 5},
		[]float64{300, 300},
	))
	c.UpperRightHull(vecops.Epsilon)

	want := pts([]float64{-10, -10}, []float64{300, 300})
	require.Len(t, c.Vertices, len(want))
	for i := range want {
		assert.InDeltaSlice(t, []float64(want[i]), []float64(c.Vertices[i]), 1e-9)
	}
}

func TestUpperRightHullElevenPointCluster(t *testing.T) {
	c := pareto.New(2, pts(
		[]float64{5, 2},
		[]float64{5, 3},
		[]float64{6.5, 3},
		[]float64{5, 3.5},
		[]float64{5.5, 3.5},
		[]float64{3, 4},
		[]float64{4.5, 4},
		[]float64{6, 4},
		[]float64{5.25, 4.5},
		[]float64{4.5, 5},
		[]float64{6.5, 5},
	))
	c.UpperRightHull(vecops.Epsilon)

	want := pts([]float64{3, 4}, []float64{4.5, 5}, []float64{6.5, 5})
	require.Len(t, c.Vertices, len(want))
	for i := range want {
		assert.InDeltaSlice(t, []float64(want[i]), []float64(c.Vertices[i]), 1e-9)
	}
}

func TestUpperRightHullIdempotent(t *testing.T) {
	verts := pts(
		[]float64{5, 2}, []float64{5, 3}, []float64{6.5, 3}, []float64{5, 3.5},
		[]float64{5.5, 3.5}, []float64{3, 4}, []float64{4.5, 4}, []float64{6, 4},
		[]float64{5.25, 4.5}, []float64{4.5, 5}, []float64{6.5, 5},
	)
	once := pareto.New(2, verts).UpperRightHull(vecops.Epsilon)
	twice := pareto.New(2, once.Vertices).UpperRightHull(vecops.Epsilon)

	require.Equal(t, len(once.Vertices), len(twice.Vertices))
	for i := range once.Vertices {
		assert.InDeltaSlice(t, []float64(once.Vertices[i]), []float64(twice.Vertices[i]), 1e-9)
	}
}

func TestDownwardClosureIdempotent(t *testing.T) {
	ref := vecops.Point{0, 0}
	c := pareto.New(2, pts([]float64{1, 5}, []float64{3, 3}, []float64{5, 1}))
	c.UpperRightHull(vecops.Epsilon)
	c.DownwardClosure(ref)
	first := len(c.Vertices)

	c.UpperRightHull(vecops.Epsilon)
	c.DownwardClosure(ref)
	assert.Equal(t, first, len(c.Vertices))
}

func TestMinkowskiSumTwoOperands(t *testing.T) {
	a := pareto.New(2, pts([]float64{0, 2}, []float64{2, 0})).UpperRightHull(vecops.Epsilon)
	b := pareto.New(2, pts([]float64{0, 1}, []float64{1, 0})).UpperRightHull(vecops.Epsilon)

	sum := pareto.MinkowskiSum([]*pareto.Curve{a, b}, []float64{1, 1})

	// Extremes of a weighted Minkowski sum of two segments from (0,2)-(2,0)
	// and (0,1)-(1,0) must include the two combined endpoints.
	assert.InDeltaSlice(t, []float64{0, 3}, []float64(sum.Vertices[0]), 1e-9)
	assert.InDeltaSlice(t, []float64{3, 0}, []float64(sum.Vertices[len(sum.Vertices)-1]), 1e-9)
}

func TestMinkowskiSumSkipsEmptyOperand(t *testing.T) {
	a := pareto.New(2, pts([]float64{0, 2}, []float64{2, 0})).UpperRightHull(vecops.Epsilon)
	empty := pareto.Empty(2)

	sum := pareto.MinkowskiSum([]*pareto.Curve{a, empty}, []float64{1, 1})
	require.Len(t, sum.Vertices, len(a.Vertices))
}

func TestPointDistanceOutsideRegion(t *testing.T) {
	c := pareto.New(2, pts([]float64{0, 0}, []float64{10, 0})).UpperRightHull(vecops.Epsilon)
	d := c.PointDistance(vecops.Point{5, 3})
	assert.InDelta(t, 3.0, d, 1e-9)
}

func TestHausdorffDistanceArgmax(t *testing.T) {
	upper := pareto.New(2, pts([]float64{0, 10}, []float64{10, 0})).UpperRightHull(vecops.Epsilon)
	lower := pareto.New(2, pts([]float64{0, 0}, []float64{10, -10}))

	dist, pt := upper.HausdorffDistance(lower)
	assert.Greater(t, dist, 0.0)
	assert.NotNil(t, pt)
}

func TestIsEmpty(t *testing.T) {
	e := pareto.Empty(2)
	assert.True(t, e.IsEmpty())

	c := pareto.New(2, pts([]float64{1, 1}))
	assert.False(t, c.IsEmpty())
}
