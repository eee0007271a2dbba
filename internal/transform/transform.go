package transform

import "math"

// SingularEpsilon is the relative determinant threshold below which a linear
// block is treated as singular and Invert fails.
const SingularEpsilon = 1e-12

// Transform is the capability set shared by every transform variant. T is the
// concrete variant, so Concat and Invert stay within one algebra.
//
// Values are immutable: Concat and Invert return new values and assignment
// copies a transform.
type Transform[T any] interface {
	// Dimension is the dimension of the point space the transform acts on.
	Dimension() int
	// Identity returns the identity element of the variant's algebra.
	Identity() T
	// Concat returns the transform that applies the receiver and then next.
	Concat(next T) T
	// Invert returns the inverse transform, or an error wrapping
	// geom.ErrSingularTransform.
	Invert() (T, error)
}

// nearlySingular2 reports whether the 2x2 determinant det is negligible
// relative to the largest entry of the block.
func nearlySingular2(det, a, b, c, d float64) bool {
	m := math.Max(math.Max(math.Abs(a), math.Abs(b)), math.Max(math.Abs(c), math.Abs(d)))
	if m == 0 || math.IsNaN(det) {
		return true
	}
	return math.Abs(det) <= SingularEpsilon*m*m
}
