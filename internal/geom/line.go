package geom

import (
	"fmt"
	"math"
)

// LineGeneral2D is a line in general form: A*x + B*y + C = 0.
// (A, B) is normal to the line; the coefficients are defined up to scale.
type LineGeneral2D struct {
	A, B, C float64
}

// LineFromPoints returns the line through p0 and p1. The result is degenerate
// (all coefficients zero) when p0 == p1.
func LineFromPoints(p0, p1 Point2D) LineGeneral2D {
	return LineGeneral2D{
		A: p0.Y - p1.Y,
		B: p1.X - p0.X,
		C: p0.X*p1.Y - p1.X*p0.Y,
	}
}

// Evaluate returns A*x + B*y + C, the algebraic residual of p against l.
func (l LineGeneral2D) Evaluate(p Point2D) float64 {
	return l.A*p.X + l.B*p.Y + l.C
}

// Distance returns the Euclidean distance from p to l. It is +Inf for a
// degenerate line.
func (l LineGeneral2D) Distance(p Point2D) float64 {
	n := math.Hypot(l.A, l.B)
	if n == 0 {
		return math.Inf(1)
	}
	return math.Abs(l.Evaluate(p)) / n
}

// Normalize scales the coefficients so that (A, B) has unit length. A
// degenerate line is returned unchanged.
func (l LineGeneral2D) Normalize() LineGeneral2D {
	n := math.Hypot(l.A, l.B)
	if n == 0 {
		return l
	}
	return LineGeneral2D{l.A / n, l.B / n, l.C / n}
}

// Intersect returns the homogeneous intersection of l and o, the cross
// product of their coefficient vectors. Parallel lines give W == 0.
func (l LineGeneral2D) Intersect(o LineGeneral2D) Homogeneous2D {
	return Homogeneous2D{
		X: l.B*o.C - l.C*o.B,
		Y: l.C*o.A - l.A*o.C,
		W: l.A*o.B - l.B*o.A,
	}
}

func (l LineGeneral2D) String() string {
	return fmt.Sprintf("%gx + %gy + %g = 0", l.A, l.B, l.C)
}

// Homogeneous2D is a projective point (X, Y, W). (X, Y, W) and
// (kX, kY, kW) name the same point for any k != 0; W == 0 is a point at
// infinity.
type Homogeneous2D struct {
	X, Y, W float64
}

// ToPoint returns the Euclidean point (X/W, Y/W). ok is false when W is zero.
func (h Homogeneous2D) ToPoint() (p Point2D, ok bool) {
	if h.W == 0 {
		return Point2D{}, false
	}
	return Point2D{h.X / h.W, h.Y / h.W}, true
}

// AtInfinity reports whether |W| is no more than tol times the norm of
// (X, Y, W).
func (h Homogeneous2D) AtInfinity(tol float64) bool {
	n := math.Sqrt(h.X*h.X + h.Y*h.Y + h.W*h.W)
	return math.Abs(h.W) <= tol*n
}

// Homogenize lifts a Euclidean point to W = 1.
func Homogenize(p Point2D) Homogeneous2D {
	return Homogeneous2D{p.X, p.Y, 1}
}
