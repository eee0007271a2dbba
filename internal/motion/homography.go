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

// HomographyDLT fits a Homography2D with the normalised direct linear
// transform. Both point sets are first translated to their centroid and
// scaled to a mean distance of sqrt(2); each correspondence then contributes
// two rows of a 2N x 9 system whose null vector is the normalised
// homography. The result is mapped back to the caller's coordinates and
// normalised so that H[8] == 1 when possible.
type HomographyDLT struct {
	nullSpace linalg.NullSpace

	a mat.Dense
	h mat.VecDense

	motion transform.Homography2D
}

var _ Estimator[geom.Point2D, transform.Homography2D] = (*HomographyDLT)(nil)

// NewHomographyDLT returns a DLT estimator using ns, or an SVD null-space
// solver when ns is nil.
func NewHomographyDLT(ns linalg.NullSpace) *HomographyDLT {
	if ns == nil {
		ns = linalg.NewSVDNullSpace(0)
	}
	return &HomographyDLT{nullSpace: ns, motion: transform.Homography2DIdentity()}
}

// MinimumPoints returns 4.
func (e *HomographyDLT) MinimumPoints() int { return 4 }

// Motion returns the most recent successful fit.
func (e *HomographyDLT) Motion() transform.Homography2D { return e.motion }

// Process fits the homography mapping from onto to.
func (e *HomographyDLT) Process(from, to []geom.Point2D) error {
	if err := checkCorrespondences("homography dlt", len(from), len(to), e.MinimumPoints()); err != nil {
		return err
	}

	nf, ok := normalisingTransform(from)
	if !ok {
		return fmt.Errorf("homography dlt: from points are coincident: %w", geom.ErrNumericalFailure)
	}
	nt, ok := normalisingTransform(to)
	if !ok {
		return fmt.Errorf("homography dlt: to points are coincident: %w", geom.ErrNumericalFailure)
	}

	n := len(from)
	linalg.Resize(&e.a, 2*n, 9)
	for i := range from {
		p := nf.Apply(from[i])
		q := nt.Apply(to[i])
		r := 2 * i
		e.a.SetRow(r, []float64{-p.X, -p.Y, -1, 0, 0, 0, q.X * p.X, q.X * p.Y, q.X})
		e.a.SetRow(r+1, []float64{0, 0, 0, -p.X, -p.Y, -1, q.Y * p.X, q.Y * p.Y, q.Y})
	}

	if err := e.nullSpace.NullVector(&e.h, &e.a); err != nil {
		monitoring.Debugf("homography dlt: null space failed for %d points: %v", n, err)
		return fmt.Errorf("homography dlt: %w", err)
	}

	var hn transform.Homography2D
	for i := 0; i < 9; i++ {
		hn.H[i] = e.h.AtVec(i)
	}
	ntInv, err := nt.Invert()
	if err != nil {
		return fmt.Errorf("homography dlt: %w", geom.ErrNumericalFailure)
	}

	// H = Nt^-1 * Hn * Nf, i.e. normalise, map, de-normalise
	e.motion = nf.Homography().Concat(hn).Concat(ntInv.Homography()).Normalize()
	return nil
}

// normalisingTransform returns the similarity moving pts to their centroid and
// scaling them to a mean distance of sqrt(2). ok is false when every point
// coincides with the centroid.
func normalisingTransform(pts []geom.Point2D) (transform.Affine2D, bool) {
	c := geom.Centroid2D(pts)
	var sum float64
	for _, p := range pts {
		sum += p.Distance(c)
	}
	mean := sum / float64(len(pts))
	if mean == 0 || math.IsNaN(mean) {
		return transform.Affine2D{}, false
	}
	s := math.Sqrt2 / mean
	return transform.Affine2D{A11: s, A22: s, Tx: -s * c.X, Ty: -s * c.Y}, true
}
