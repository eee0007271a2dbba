package motion

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/geofit/internal/geom"
	"github.com/banshee-data/geofit/internal/linalg"
	"github.com/banshee-data/geofit/internal/monitoring"
	"github.com/banshee-data/geofit/internal/transform"
)

// AffineLeastSquares2D fits an Affine2D by linear least squares. Each
// correspondence contributes one row [x y 1] of the design matrix and one row
// [x' y'] of the right-hand side; the 3x2 solution holds the linear block and
// the translation.
type AffineLeastSquares2D struct {
	solver linalg.LeastSquares

	// scratch, resized at the start of each Process
	a, b, x mat.Dense

	motion transform.Affine2D
}

var _ Estimator[geom.Point2D, transform.Affine2D] = (*AffineLeastSquares2D)(nil)

// NewAffineLeastSquares2D returns an affine estimator using solver, or a QR
// solver when solver is nil.
func NewAffineLeastSquares2D(solver linalg.LeastSquares) *AffineLeastSquares2D {
	if solver == nil {
		solver = linalg.NewQRLeastSquares()
	}
	return &AffineLeastSquares2D{solver: solver, motion: transform.Affine2DIdentity()}
}

// MinimumPoints returns 3: three non-collinear points pin an affine map.
func (e *AffineLeastSquares2D) MinimumPoints() int { return 3 }

// Motion returns the most recent successful fit.
func (e *AffineLeastSquares2D) Motion() transform.Affine2D { return e.motion }

// Process fits the affine transform mapping from onto to.
func (e *AffineLeastSquares2D) Process(from, to []geom.Point2D) error {
	if err := checkCorrespondences("affine2d", len(from), len(to), e.MinimumPoints()); err != nil {
		return err
	}

	// Centring the from coordinates keeps the design matrix well conditioned
	// for data far from the origin.
	c := geom.Centroid2D(from)

	n := len(from)
	linalg.Resize(&e.a, n, 3)
	linalg.Resize(&e.b, n, 2)
	for i := range from {
		e.a.Set(i, 0, from[i].X-c.X)
		e.a.Set(i, 1, from[i].Y-c.Y)
		e.a.Set(i, 2, 1)
		e.b.Set(i, 0, to[i].X)
		e.b.Set(i, 1, to[i].Y)
	}

	if err := e.solver.Solve(&e.x, &e.a, &e.b); err != nil {
		monitoring.Debugf("affine2d: solve failed for %d points: %v", n, err)
		return fmt.Errorf("affine2d: %w", err)
	}

	m := transform.Affine2D{
		A11: e.x.At(0, 0), A12: e.x.At(1, 0),
		A21: e.x.At(0, 1), A22: e.x.At(1, 1),
	}
	// undo the centring: t = t' - A*c
	m.Tx = e.x.At(2, 0) - (m.A11*c.X + m.A12*c.Y)
	m.Ty = e.x.At(2, 1) - (m.A21*c.X + m.A22*c.Y)
	e.motion = m
	return nil
}
