package motion

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/geofit/internal/geom"
	"github.com/banshee-data/geofit/internal/linalg"
	"github.com/banshee-data/geofit/internal/monitoring"
	"github.com/banshee-data/geofit/internal/transform"
)

// RigidCovariance2D fits an Se2 in closed form (orthogonal Procrustes).
//
// Algorithm:
//  1. Centroids of both sets
//  2. Centred sets stacked as N x 2 matrices P (from) and Q (to)
//  3. Cross-covariance M = Q^T * P
//  4. Rotation = nearest proper rotation to M (SVD, reflection corrected)
//  5. Translation = centroid(to) - R * centroid(from)
type RigidCovariance2D struct {
	p, q, m, r mat.Dense

	motion transform.Se2
}

var _ Estimator[geom.Point2D, transform.Se2] = (*RigidCovariance2D)(nil)

// NewRigidCovariance2D returns a closed-form 2D rigid estimator.
func NewRigidCovariance2D() *RigidCovariance2D {
	return &RigidCovariance2D{motion: transform.Se2Identity()}
}

// MinimumPoints returns 2.
func (e *RigidCovariance2D) MinimumPoints() int { return 2 }

// Motion returns the most recent successful fit.
func (e *RigidCovariance2D) Motion() transform.Se2 { return e.motion }

// Process fits the rigid motion mapping from onto to.
func (e *RigidCovariance2D) Process(from, to []geom.Point2D) error {
	if err := checkCorrespondences("rigid2d covariance", len(from), len(to), e.MinimumPoints()); err != nil {
		return err
	}

	cf := geom.Centroid2D(from)
	ct := geom.Centroid2D(to)

	n := len(from)
	linalg.Resize(&e.p, n, 2)
	linalg.Resize(&e.q, n, 2)
	for i := range from {
		e.p.Set(i, 0, from[i].X-cf.X)
		e.p.Set(i, 1, from[i].Y-cf.Y)
		e.q.Set(i, 0, to[i].X-ct.X)
		e.q.Set(i, 1, to[i].Y-ct.Y)
	}

	linalg.Resize(&e.m, 2, 2)
	e.m.Mul(e.q.T(), &e.p)
	if mat.Norm(&e.m, 2) == 0 {
		return fmt.Errorf("rigid2d covariance: zero cross-covariance: %w", geom.ErrNumericalFailure)
	}
	if err := linalg.NearestRotation(&e.r, &e.m); err != nil {
		monitoring.Debugf("rigid2d covariance: rotation extraction failed for %d points: %v", n, err)
		return fmt.Errorf("rigid2d covariance: %w", err)
	}

	m := transform.Se2{Cos: e.r.At(0, 0), Sin: e.r.At(1, 0)}
	m.Tx = ct.X - (m.Cos*cf.X - m.Sin*cf.Y)
	m.Ty = ct.Y - (m.Sin*cf.X + m.Cos*cf.Y)
	e.motion = m
	return nil
}

// RigidCovariance3D fits an Se3 in closed form. It follows the same steps as
// RigidCovariance2D with 3x3 matrices; when the unconstrained optimum is a
// reflection (coplanar or noisy data) the smallest singular direction is
// flipped so a proper rotation is always returned.
type RigidCovariance3D struct {
	p, q, m, r mat.Dense

	motion transform.Se3
}

var _ Estimator[geom.Point3D, transform.Se3] = (*RigidCovariance3D)(nil)

// NewRigidCovariance3D returns a closed-form 3D rigid estimator.
func NewRigidCovariance3D() *RigidCovariance3D {
	return &RigidCovariance3D{motion: transform.Se3Identity()}
}

// MinimumPoints returns 3.
func (e *RigidCovariance3D) MinimumPoints() int { return 3 }

// Motion returns the most recent successful fit.
func (e *RigidCovariance3D) Motion() transform.Se3 { return e.motion }

// Process fits the rigid motion mapping from onto to.
func (e *RigidCovariance3D) Process(from, to []geom.Point3D) error {
	if err := checkCorrespondences("rigid3d covariance", len(from), len(to), e.MinimumPoints()); err != nil {
		return err
	}

	cf := geom.Centroid3D(from)
	ct := geom.Centroid3D(to)

	n := len(from)
	linalg.Resize(&e.p, n, 3)
	linalg.Resize(&e.q, n, 3)
	for i := range from {
		dp := from[i].Sub(cf)
		dq := to[i].Sub(ct)
		e.p.Set(i, 0, dp.X)
		e.p.Set(i, 1, dp.Y)
		e.p.Set(i, 2, dp.Z)
		e.q.Set(i, 0, dq.X)
		e.q.Set(i, 1, dq.Y)
		e.q.Set(i, 2, dq.Z)
	}

	linalg.Resize(&e.m, 3, 3)
	e.m.Mul(e.q.T(), &e.p)
	if mat.Norm(&e.m, 2) == 0 {
		return fmt.Errorf("rigid3d covariance: zero cross-covariance: %w", geom.ErrNumericalFailure)
	}
	if err := linalg.NearestRotation(&e.r, &e.m); err != nil {
		monitoring.Debugf("rigid3d covariance: rotation extraction failed for %d points: %v", n, err)
		return fmt.Errorf("rigid3d covariance: %w", err)
	}

	var m transform.Se3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.R[i*3+j] = e.r.At(i, j)
		}
	}
	rc := transform.Se3{R: m.R}.Apply(cf)
	m.T = [3]float64{ct.X - rc.X, ct.Y - rc.Y, ct.Z - rc.Z}
	e.motion = m
	return nil
}
