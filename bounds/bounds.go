// Package bounds implements the (lower, upper) Pareto-curve bracket that
// every state and state-action pair in an EnvironmentAPI carries: a pair of
// convex curves over/under-approximating the true Pareto-optimal set of
// discounted returns, plus the cached Hausdorff gap between them that both
// solvers use to decide when a bracket is "tight enough".
package bounds

import (
	"github.com/go-pareto/chvi/pareto"
	"github.com/go-pareto/chvi/vecops"
)

// Bounds holds a lower and upper approximation of a Pareto curve, along
// with a lazily-computed, explicitly invalidated Hausdorff gap between
// them. The zero value is not usable; construct with New.
type Bounds struct {
	Lower *pareto.Curve
	Upper *pareto.Curve

	hausdorffValid bool
	hausdorffDist  float64
	furthestPoints []vecops.Point
}

// New constructs a Bounds from a lower and upper curve. The curves are not
// normalized by New; callers that need the convexity invariant should call
// Pareto afterward.
func New(lower, upper *pareto.Curve) *Bounds {
	return &Bounds{Lower: lower, Upper: upper}
}

// invalidate marks the cached Hausdorff distance stale. Every mutating
// method on Bounds calls this before returning.
func (b *Bounds) invalidate() {
	b.hausdorffValid = false
	b.furthestPoints = nil
}

// Multiply scales both the lower and upper curve componentwise by w (the
// per-objective discount vector, typically) and invalidates the cached
// Hausdorff gap.
func (b *Bounds) Multiply(w vecops.Point) *Bounds {
	b.Lower.Multiply(w)
	b.Upper.Multiply(w)
	b.invalidate()
	return b
}

// ScalarMultiply scales both curves by a single scalar and invalidates the
// cached Hausdorff gap.
func (b *Bounds) ScalarMultiply(s float64) *Bounds {
	b.Lower.ScalarMultiply(s)
	b.Upper.ScalarMultiply(s)
	b.invalidate()
	return b
}

// Shift translates both curves by r (typically the expected immediate
// reward vector) and invalidates the cached Hausdorff gap.
func (b *Bounds) Shift(r vecops.Point) *Bounds {
	b.Lower.Shift(r)
	b.Upper.Shift(r)
	b.invalidate()
	return b
}

// Pareto re-establishes the convex-hull invariant on both curves and
// extends the lower curve's downward closure toward ref — the upper curve
// is only ever hulled, never closed, since it is meant to bound the
// achievable set from outside rather than describe everything dominated by
// it. Invalidates the cached Hausdorff gap.
func (b *Bounds) Pareto(ref vecops.Point, eps float64) *Bounds {
	b.Lower.UpperRightHull(eps).DownwardClosure(ref)
	b.Upper.UpperRightHull(eps)
	b.invalidate()
	return b
}

// HausdorffDistance returns the cached Hausdorff gap between the lower and
// upper curve, computing and caching it on first call.
//
// Precondition: Pareto has already established facets on both curves (the
// lower curve is contained in the upper curve's region).
func (b *Bounds) HausdorffDistance() float64 {
	if !b.hausdorffValid {
		dist, pts := b.computeHausdorff()
		b.hausdorffDist = dist
		b.furthestPoints = pts
		b.hausdorffValid = true
	}
	return b.hausdorffDist
}

// computeHausdorff measures the gap by walking the upper curve's vertices
// and, for each, finding its distance to the lower curve's facets — the
// lower curve is the "contained" region, so it plays the receiver role in
// pareto.Curve.HausdorffDistance.
func (b *Bounds) computeHausdorff() (float64, []vecops.Point) {
	dist, furthest := b.Lower.HausdorffDistance(b.Upper)
	if furthest == nil {
		return dist, nil
	}
	return dist, []vecops.Point{furthest}
}

// FurthestPoints returns the upper-curve vertex (or vertices) realizing the
// cached Hausdorff gap, computing it first if necessary.
func (b *Bounds) FurthestPoints() []vecops.Point {
	if !b.hausdorffValid {
		b.HausdorffDistance()
	}
	return b.furthestPoints
}

// SumSuccessors computes the weighted Minkowski sum of a set of successor
// Bounds — used by the solver update rule to combine the bounds of every
// (state', action') reachable from a (state, action) pair, weighted by
// transition probability. The lower curves and upper curves are summed
// independently.
func SumSuccessors(successors []*Bounds, weights []float64) *Bounds {
	lowers := make([]*pareto.Curve, len(successors))
	uppers := make([]*pareto.Curve, len(successors))
	for i, s := range successors {
		lowers[i] = s.Lower
		uppers[i] = s.Upper
	}
	return &Bounds{
		Lower: pareto.MinkowskiSum(lowers, weights),
		Upper: pareto.MinkowskiSum(uppers, weights),
	}
}

// Clone returns a deep copy of b, excluding its cache (the copy starts
// invalidated).
func (b *Bounds) Clone() *Bounds {
	return &Bounds{Lower: b.Lower.Clone(), Upper: b.Upper.Clone()}
}
