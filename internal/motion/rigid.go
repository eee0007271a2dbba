package motion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/geofit/internal/geom"
	"github.com/banshee-data/geofit/internal/linalg"
	"github.com/banshee-data/geofit/internal/monitoring"
	"github.com/banshee-data/geofit/internal/transform"
)

// RigidLeastSquares2D fits an Se2 by linear least squares over the
// similarity parameters (a, b, tx, ty):
//
//	x' = a*x - b*y + tx
//	y' = b*x + a*y + ty
//
// Each correspondence contributes two rows. The solution is then made
// orthogonal by normalising (a, b) onto the unit circle, and the translation
// is re-derived from the centroids so that it matches the corrected rotation.
type RigidLeastSquares2D struct {
	solver linalg.LeastSquares

	a, b, x mat.Dense

	motion transform.Se2
}

var _ Estimator[geom.Point2D, transform.Se2] = (*RigidLeastSquares2D)(nil)

// NewRigidLeastSquares2D returns a rigid estimator using solver, or a QR
// solver when solver is nil.
func NewRigidLeastSquares2D(solver linalg.LeastSquares) *RigidLeastSquares2D {
	if solver == nil {
		solver = linalg.NewQRLeastSquares()
	}
	return &RigidLeastSquares2D{solver: solver, motion: transform.Se2Identity()}
}

// MinimumPoints returns 2.
func (e *RigidLeastSquares2D) MinimumPoints() int { return 2 }

// Motion returns the most recent successful fit.
func (e *RigidLeastSquares2D) Motion() transform.Se2 { return e.motion }

// Process fits the rigid motion mapping from onto to.
func (e *RigidLeastSquares2D) Process(from, to []geom.Point2D) error {
	if err := checkCorrespondences("rigid2d least squares", len(from), len(to), e.MinimumPoints()); err != nil {
		return err
	}

	cf := geom.Centroid2D(from)
	ct := geom.Centroid2D(to)

	n := len(from)
	linalg.Resize(&e.a, 2*n, 4)
	linalg.Resize(&e.b, 2*n, 1)
	for i := range from {
		x := from[i].X - cf.X
		y := from[i].Y - cf.Y
		r := 2 * i
		e.a.Set(r, 0, x)
		e.a.Set(r, 1, -y)
		e.a.Set(r, 2, 1)
		e.b.Set(r, 0, to[i].X)

		e.a.Set(r+1, 0, y)
		e.a.Set(r+1, 1, x)
		e.a.Set(r+1, 3, 1)
		e.b.Set(r+1, 0, to[i].Y)
	}

	if err := e.solver.Solve(&e.x, &e.a, &e.b); err != nil {
		monitoring.Debugf("rigid2d least squares: solve failed for %d points: %v", n, err)
		return fmt.Errorf("rigid2d least squares: %w", err)
	}

	ca, sb := e.x.At(0, 0), e.x.At(1, 0)
	norm := math.Hypot(ca, sb)
	if norm == 0 || math.IsNaN(norm) {
		return fmt.Errorf("rigid2d least squares: zero rotation block: %w", geom.ErrNumericalFailure)
	}
	m := transform.Se2{Cos: ca / norm, Sin: sb / norm}
	m.Tx = ct.X - (m.Cos*cf.X - m.Sin*cf.Y)
	m.Ty = ct.Y - (m.Sin*cf.X + m.Cos*cf.Y)
	e.motion = m
	return nil
}
