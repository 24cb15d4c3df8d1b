// Package pareto implements the 2-dimensional convex-Pareto-curve algebra:
// the convex upper-right hull, downward closure, probability-weighted
// Minkowski sum, and the point-to-curve / Hausdorff distances that the
// envwrap and solver packages build their update rule on.
//
// A Curve stores its vertices unsorted and un-deduplicated until
// UpperRightHull is called; callers that need the convexity invariant are
// responsible for calling it (construction itself imposes nothing). This
// mirrors the teacher library's separation of raw storage
// (core.Graph's vertices map) from the operations that establish
// invariants over it.
package pareto

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pareto/chvi/vecops"
)

// Curve is the vertex representation of a convex, downward-closed region in
// R^Dim (Dim is 1 or 2 — this algebra is not defined for higher dimensions).
type Curve struct {
	Dim      int
	Vertices []vecops.Point
}

// New builds a Curve from an unordered list of points. All points must share
// the same dimension d (1 or 2); New panics otherwise, since a dimension
// mismatch is a programming error (InvalidGeometry), not a recoverable one.
//
// Construction does not impose the convexity invariant — call
// UpperRightHull to normalize.
func New(dim int, points []vecops.Point) *Curve {
	if dim != 1 && dim != 2 {
		panic(fmt.Sprintf("pareto: unsupported dimension %d", dim))
	}
	for _, p := range points {
		if len(p) != dim {
			panic(fmt.Sprintf("pareto: point %v does not match curve dimension %d", p, dim))
		}
	}
	verts := make([]vecops.Point, len(points))
	copy(verts, points)
	return &Curve{Dim: dim, Vertices: verts}
}

// Empty returns the empty curve of the given dimension — the bottom element:
// neutral for Minkowski sum, dominated by any non-empty curve.
func Empty(dim int) *Curve {
	return &Curve{Dim: dim, Vertices: nil}
}

// IsEmpty reports whether c has no vertices.
func (c *Curve) IsEmpty() bool {
	return c == nil || len(c.Vertices) == 0
}

// Clone returns a deep copy of c.
func (c *Curve) Clone() *Curve {
	verts := make([]vecops.Point, len(c.Vertices))
	for i, v := range c.Vertices {
		verts[i] = vecops.Clone(v)
	}
	return &Curve{Dim: c.Dim, Vertices: verts}
}

// ccw computes the signed area of the triangle (a,b,c), doubled:
//
//	ccw(a,b,c) = (b.x-a.x)(c.y-a.y) - (b.y-a.y)(c.x-a.x)
//
// Positive means c is to the left of a->b (a counterclockwise turn).
func ccw(a, b, c vecops.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// UpperRightHull normalizes c in place into the convex upper-right frontier
// and returns c for chaining.
//
// For Dim == 1 this reduces the curve to its single maximum point. For
// Dim == 2 it is the standard monotone-chain upper-hull construction:
// vertices are sorted lexicographically ascending, then scanned in that
// same order maintaining a stack, popping the top of the stack while the
// last two stack entries and the candidate do not form a strict right turn
// (i.e. ccw >= -tol, where tol = eps/100 absorbs floating-point noise
// around exactly colinear triples). The result is already lexicographically
// ascending — no final reversal is needed since vertices are pushed in
// ascending order throughout.
//
// Complexity: O(V log V) for the sort, O(V) for the scan.
func (c *Curve) UpperRightHull(eps float64) *Curve {
	switch c.Dim {
	case 1:
		return c.hull1D()
	case 2:
		return c.hull2D(eps)
	default:
		panic(fmt.Sprintf("pareto: UpperRightHull undefined for dimension %d", c.Dim))
	}
}

func (c *Curve) hull1D() *Curve {
	if len(c.Vertices) == 0 {
		return c
	}
	best := c.Vertices[0]
	for _, v := range c.Vertices[1:] {
		if v[0] > best[0] {
			best = v
		}
	}
	c.Vertices = []vecops.Point{best}
	return c
}

func (c *Curve) hull2D(eps float64) *Curve {
	if len(c.Vertices) <= 1 {
		return c
	}

	pts := make([]vecops.Point, len(c.Vertices))
	copy(pts, c.Vertices)
	sort.Slice(pts, func(i, j int) bool { return vecops.Less(pts[i], pts[j]) })

	tol := eps / 100
	stack := make([]vecops.Point, 0, len(pts))
	for _, p := range pts {
		for len(stack) >= 2 && ccw(stack[len(stack)-2], stack[len(stack)-1], p) >= -tol {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, p)
	}
	c.Vertices = stack
	return c
}

// DownwardClosure extends c toward the reference corner r, encoding that
// every point dominated by an achievable vector is itself achievable.
//
// Precondition: UpperRightHull has already been applied, and r is
// componentwise <= every vertex of c. For Dim == 2 this appends
// (maxX, r.y) and (r.x, maxY), where maxX/maxY are the maxima of the
// existing vertices' coordinates, skipping either one that is already a
// vertex of c (so applying it twice adds nothing the second time), then
// re-sorts to restore the ascending invariant. For Dim == 1 it is a no-op.
func (c *Curve) DownwardClosure(ref vecops.Point) *Curve {
	if c.Dim == 1 {
		return c
	}
	if c.Dim != 2 {
		panic(fmt.Sprintf("pareto: DownwardClosure undefined for dimension %d", c.Dim))
	}
	if len(c.Vertices) == 0 {
		return c
	}

	maxX, maxY := c.Vertices[0][0], c.Vertices[0][1]
	for _, v := range c.Vertices[1:] {
		if v[0] > maxX {
			maxX = v[0]
		}
		if v[1] > maxY {
			maxY = v[1]
		}
	}

	for _, extra := range []vecops.Point{{maxX, ref[1]}, {ref[0], maxY}} {
		present := false
		for _, v := range c.Vertices {
			if vecops.PointApproxEqual(v, extra) {
				present = true
				break
			}
		}
		if !present {
			c.Vertices = append(c.Vertices, extra)
		}
	}
	sort.Slice(c.Vertices, func(i, j int) bool { return vecops.Less(c.Vertices[i], c.Vertices[j]) })
	return c
}

// Shift translates every vertex of c by r. It does not re-establish the
// convex hull invariant; callers must re-hull afterward if needed.
func (c *Curve) Shift(r vecops.Point) *Curve {
	for i, v := range c.Vertices {
		c.Vertices[i] = vecops.Add(v, r)
	}
	return c
}

// ScalarMultiply scales every vertex of c by a single scalar. It does not
// re-establish the convex hull invariant.
func (c *Curve) ScalarMultiply(s float64) *Curve {
	for i, v := range c.Vertices {
		c.Vertices[i] = vecops.ScalarMultiply(v, s)
	}
	return c
}

// Multiply scales every vertex of c componentwise by w. It does not
// re-establish the convex hull invariant.
func (c *Curve) Multiply(w vecops.Point) *Curve {
	for i, v := range c.Vertices {
		c.Vertices[i] = vecops.ElementwiseMultiply(v, w)
	}
	return c
}

// PointDistance returns the distance from p to the facet boundary of c.
//
// Precondition: c has been normalized (UpperRightHull) and, where relevant,
// closed (DownwardClosure) so that consecutive vertices describe implicit
// facets. p must lie above/right of c's downward-closed region — the
// result is only meaningful for such points.
//
// For Dim == 1, returns p.x - c.Vertices[0].x. For Dim == 2, returns the
// minimum over all consecutive-vertex edges of the segment-to-point
// distance.
func (c *Curve) PointDistance(p vecops.Point) float64 {
	if c.IsEmpty() {
		panic("pareto: PointDistance called on empty curve")
	}
	if c.Dim == 1 {
		return p[0] - c.Vertices[0][0]
	}
	if len(c.Vertices) == 1 {
		return vecops.Euclidean(c.Vertices[0], p)
	}
	best := vecops.SegmentDistance(c.Vertices[0], c.Vertices[1], p)
	for i := 1; i < len(c.Vertices)-1; i++ {
		d := vecops.SegmentDistance(c.Vertices[i], c.Vertices[i+1], p)
		if d < best {
			best = d
		}
	}
	return best
}

// MinkowskiSum computes the weighted Minkowski sum of a set of normalized
// (UpperRightHull-applied) curves: the curve of all points
// sum_i w_i * p_i where p_i ranges over operand i's vertices.
//
// Empty operands act as the additive identity and are skipped. Operands
// must all share the same dimension; the result shares it too. The
// returned curve is already the convex upper-right hull of the sum (no
// further UpperRightHull call is required), since a weighted Minkowski sum
// of convex curves with positive weights is itself convex.
//
// For Dim == 1 the sum is simply sum_i w_i * operand_i's single vertex.
//
// For Dim == 2 this is a linear-time merge: each operand keeps an offset
// into its vertex list; at every step the current combined point is
// sum_i w_i * operand_i.Vertices[offset_i], and the algorithm advances the
// offset of whichever operand(s) have the steepest next edge slope (ties
// broken by advancing all of them), since a convex hull's edges have
// monotonically decreasing slope as x increases and the combined hull
// must respect the same ordering.
func MinkowskiSum(operands []*Curve, weights []float64) *Curve {
	if len(operands) != len(weights) {
		panic("pareto: MinkowskiSum operands/weights length mismatch")
	}

	var ops []*Curve
	var ws []float64
	dim := 0
	for i, op := range operands {
		if op.IsEmpty() {
			continue
		}
		dim = op.Dim
		ops = append(ops, op)
		ws = append(ws, weights[i])
	}
	if len(ops) == 0 {
		return Empty(operands[0].Dim)
	}

	if dim == 1 {
		var sum float64
		for i, op := range ops {
			sum += ws[i] * op.Vertices[0][0]
		}
		return &Curve{Dim: 1, Vertices: []vecops.Point{{sum}}}
	}

	offsets := make([]int, len(ops))
	current := func() vecops.Point {
		p := vecops.Point{0, 0}
		for i, op := range ops {
			v := vecops.ScalarMultiply(op.Vertices[offsets[i]], ws[i])
			p = vecops.Add(p, v)
		}
		return p
	}

	result := []vecops.Point{current()}
	for {
		done := true
		for i, op := range ops {
			if offsets[i] < len(op.Vertices)-1 {
				done = false
				break
			}
		}
		if done {
			break
		}

		bestSlope := math.Inf(-1)
		var advance []int
		for i, op := range ops {
			if offsets[i] >= len(op.Vertices)-1 {
				continue
			}
			a, b := op.Vertices[offsets[i]], op.Vertices[offsets[i]+1]
			dx := b[0] - a[0]
			var slope float64
			if vecops.ApproxZero(dx) {
				slope = math.Inf(1)
			} else {
				slope = (b[1] - a[1]) / dx
			}
			switch {
			case slope > bestSlope+vecops.Epsilon:
				bestSlope = slope
				advance = []int{i}
			case slope >= bestSlope-vecops.Epsilon:
				advance = append(advance, i)
			}
		}
		for _, i := range advance {
			offsets[i]++
		}
		result = append(result, current())
	}

	return &Curve{Dim: 2, Vertices: result}
}

// HausdorffDistance returns the one-sided Hausdorff distance from other to
// c: the maximum, over every vertex v of other, of c.PointDistance(v), along
// with the maximizing vertex.
//
// Precondition: every vertex of other lies above/right of c's
// downward-closed region, as PointDistance requires (this is the directed
// Hausdorff distance used for the bound gap, where c is the "inner" lower
// bound and other is the "outer" upper bound, as bounds.Bounds calls it).
func (c *Curve) HausdorffDistance(other *Curve) (float64, vecops.Point) {
	if other.IsEmpty() {
		return 0, nil
	}
	best := c.PointDistance(other.Vertices[0])
	bestPt := other.Vertices[0]
	for _, v := range other.Vertices[1:] {
		d := c.PointDistance(v)
		if d > best {
			best = d
			bestPt = v
		}
	}
	return best, bestPt
}
