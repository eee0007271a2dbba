// Package intersect computes best-fit intersections of geometric primitives.
package intersect

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/geofit/internal/geom"
	"github.com/banshee-data/geofit/internal/linalg"
	"github.com/banshee-data/geofit/internal/monitoring"
)

// LineIntersection finds the homogeneous point that best satisfies a set of
// general-form lines at once. The (A, B, C) coefficients are stacked as rows
// of a matrix whose one-dimensional null space is the total-least-squares
// intersection; when every line passes through one point that point is
// returned exactly (up to scale).
//
// The coefficient matrix is kept between calls. An instance is not safe for
// concurrent use.
type LineIntersection struct {
	nullSpace linalg.NullSpace

	a mat.Dense
	v mat.VecDense
}

// NewLineIntersection returns a solver using ns, or an SVD null-space solver
// when ns is nil.
func NewLineIntersection(ns linalg.NullSpace) *LineIntersection {
	if ns == nil {
		ns = linalg.NewSVDNullSpace(0)
	}
	return &LineIntersection{nullSpace: ns}
}

// MinimumLines returns 2.
func (s *LineIntersection) MinimumLines() int { return 2 }

// Process returns the best-fit intersection of lines. Parallel lines give a
// point with W close to zero, which is returned as is. Fewer than two lines
// fail with geom.ErrInvalidInput; a coefficient matrix of rank below two
// (coincident or degenerate lines) fails with geom.ErrNumericalFailure.
func (s *LineIntersection) Process(lines []geom.LineGeneral2D) (geom.Homogeneous2D, error) {
	if len(lines) < s.MinimumLines() {
		return geom.Homogeneous2D{}, fmt.Errorf("line intersection: %d lines, need at least %d: %w",
			len(lines), s.MinimumLines(), geom.ErrInvalidInput)
	}

	linalg.Resize(&s.a, len(lines), 3)
	for i, l := range lines {
		s.a.Set(i, 0, l.A)
		s.a.Set(i, 1, l.B)
		s.a.Set(i, 2, l.C)
	}

	if err := s.nullSpace.NullVector(&s.v, &s.a); err != nil {
		monitoring.Debugf("line intersection: null space failed for %d lines: %v", len(lines), err)
		return geom.Homogeneous2D{}, fmt.Errorf("line intersection: %w", err)
	}
	return geom.Homogeneous2D{X: s.v.AtVec(0), Y: s.v.AtVec(1), W: s.v.AtVec(2)}, nil
}
