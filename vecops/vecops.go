// Package vecops provides elementwise arithmetic over fixed-length real
// vectors, plus the tolerance predicates shared by the pareto and bounds
// packages.
//
// A Point is an ordered tuple of real values; every operation in this
// package assumes (but does not check) that its operands share a common
// length. Vectors of length 1 or 2 are the only lengths the rest of this
// module ever constructs.
package vecops

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Epsilon is the default tolerance used for "approximately equal" and
// "approximately zero" comparisons throughout the curve algebra.
const Epsilon = 1e-7

// Point is an ordered tuple of real values.
type Point []float64

// Clone returns a fresh copy of p so callers can mutate the result without
// aliasing the original vector's backing array.
func Clone(p Point) Point {
	out := make(Point, len(p))
	copy(out, p)
	return out
}

// Add returns a+b elementwise over the length of a. Panics if b is shorter
// than a; extra components of b are ignored.
func Add(a, b Point) Point {
	out := make(Point, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Subtract returns a-b elementwise.
func Subtract(a, b Point) Point {
	out := make(Point, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// ScalarMultiply returns a scaled by a single scalar.
func ScalarMultiply(a Point, s float64) Point {
	out := make(Point, len(a))
	for i := range a {
		out[i] = a[i] * s
	}
	return out
}

// ElementwiseMultiply returns a scaled componentwise by a per-component
// vector s. len(s) must equal len(a).
func ElementwiseMultiply(a, s Point) Point {
	out := make(Point, len(a))
	for i := range a {
		out[i] = a[i] * s[i]
	}
	return out
}

// Dot returns the dot product of a and b.
func Dot(a, b Point) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Euclidean returns the Euclidean distance between a and b, via gonum's
// floats.Distance (L2 norm).
func Euclidean(a, b Point) float64 {
	return floats.Distance(a, b, 2)
}

// SegmentDistance projects p onto the segment ab with a clamped projection
// coefficient and returns the distance from p to that projection.
//
//	t = clamp( <p-a, b-a> / <b-a, b-a>, 0, 1 )
//	dist = || a + t*(b-a) - p ||
//
// A zero-length segment (a == b) falls back to the distance between a and p.
func SegmentDistance(a, b, p Point) float64 {
	ab := Subtract(b, a)
	denom := Dot(ab, ab)
	if ApproxZero(denom) {
		return Euclidean(a, p)
	}
	ap := Subtract(p, a)
	t := Dot(ap, ab) / denom
	t = math.Max(0, math.Min(1, t))
	proj := Add(a, ScalarMultiply(ab, t))
	return Euclidean(proj, p)
}

// ApproxEqual reports whether the scalars a and b differ by at most
// Epsilon.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// ApproxZero reports whether v is within Epsilon of zero.
func ApproxZero(v float64) bool {
	return math.Abs(v) <= Epsilon
}

// PointApproxEqual reports whether two points are componentwise within
// Epsilon of each other.
func PointApproxEqual(a, b Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ApproxEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Less implements the lexicographic order used to sort curve vertices.
func Less(a, b Point) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// LessEqualAll reports whether a is componentwise <= b.
func LessEqualAll(a, b Point) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}
