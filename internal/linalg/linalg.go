package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/geofit/internal/geom"
)

// DefaultRCond is the relative singular-value threshold below which a
// direction is treated as numerically absent.
const DefaultRCond = 1e-12

// LeastSquares solves the over-determined system min ||a*X - b|| in the
// Frobenius norm. a is m×n with m >= n, b is m×k and dst receives n×k.
type LeastSquares interface {
	Solve(dst, a, b *mat.Dense) error
}

// NullSpace extracts a unit vector spanning the one-dimensional null space of
// a (the right singular vector of the smallest singular value). dst is
// resized to the column count of a.
type NullSpace interface {
	NullVector(dst *mat.VecDense, a *mat.Dense) error
}

// Resize makes m an r×c matrix of zeros, reusing its backing array when the
// capacity allows. Scratch matrices are resized at the start of every call so
// values from a previous, differently sized problem never survive.
func Resize(m *mat.Dense, r, c int) {
	if !m.IsEmpty() {
		m.Reset()
	}
	m.ReuseAs(r, c)
}

// ResizeVec is Resize for vectors.
func ResizeVec(v *mat.VecDense, n int) {
	if !v.IsEmpty() {
		v.Reset()
	}
	v.ReuseAsVec(n)
}

// QRLeastSquares solves least squares with a Householder QR factorisation.
// It is the fastest option and fails on rank-deficient systems.
type QRLeastSquares struct {
	qr mat.QR
}

// NewQRLeastSquares returns a QR based solver.
func NewQRLeastSquares() *QRLeastSquares {
	return &QRLeastSquares{}
}

// Solve implements LeastSquares.
func (s *QRLeastSquares) Solve(dst, a, b *mat.Dense) error {
	m, n := a.Dims()
	if m < n {
		return fmt.Errorf("qr least squares: %d rows for %d unknowns: %w", m, n, geom.ErrInvalidInput)
	}
	if br, _ := b.Dims(); br != m {
		return fmt.Errorf("qr least squares: rhs has %d rows, want %d: %w", br, m, geom.ErrInvalidInput)
	}

	s.qr.Factorize(a)
	if !dst.IsEmpty() {
		dst.Reset()
	}
	if err := s.qr.SolveTo(dst, false, b); err != nil {
		return fmt.Errorf("qr least squares: %v: %w", err, geom.ErrNumericalFailure)
	}
	if !allFinite(dst) {
		return fmt.Errorf("qr least squares: non-finite solution: %w", geom.ErrNumericalFailure)
	}
	return nil
}

// SVDLeastSquares solves least squares through the pseudo-inverse. It is
// slower than QR but reports rank deficiency against an explicit relative
// threshold.
type SVDLeastSquares struct {
	// RCond is the relative singular-value threshold. Zero means DefaultRCond.
	RCond float64

	svd  mat.SVD
	u, v mat.Dense
	tmp  mat.Dense
}

// NewSVDLeastSquares returns an SVD based solver using rcond as its rank
// threshold.
func NewSVDLeastSquares(rcond float64) *SVDLeastSquares {
	return &SVDLeastSquares{RCond: rcond}
}

// Solve implements LeastSquares.
func (s *SVDLeastSquares) Solve(dst, a, b *mat.Dense) error {
	m, n := a.Dims()
	if m < n {
		return fmt.Errorf("svd least squares: %d rows for %d unknowns: %w", m, n, geom.ErrInvalidInput)
	}
	br, k := b.Dims()
	if br != m {
		return fmt.Errorf("svd least squares: rhs has %d rows, want %d: %w", br, m, geom.ErrInvalidInput)
	}

	if ok := s.svd.Factorize(a, mat.SVDThin); !ok {
		return fmt.Errorf("svd least squares: factorisation failed: %w", geom.ErrNumericalFailure)
	}
	values := s.svd.Values(nil)
	if rank := effectiveRank(values, s.rcond()); rank < n {
		return fmt.Errorf("svd least squares: rank %d < %d: %w", rank, n, geom.ErrNumericalFailure)
	}

	s.u.Reset()
	s.v.Reset()
	s.svd.UTo(&s.u)
	s.svd.VTo(&s.v)

	// x = V * diag(1/s) * U^T * b
	Resize(&s.tmp, n, k)
	s.tmp.Mul(s.u.T(), b)
	for i := 0; i < n; i++ {
		inv := 1 / values[i]
		for j := 0; j < k; j++ {
			s.tmp.Set(i, j, s.tmp.At(i, j)*inv)
		}
	}
	Resize(dst, n, k)
	dst.Mul(&s.v, &s.tmp)
	return nil
}

func (s *SVDLeastSquares) rcond() float64 {
	if s.RCond <= 0 {
		return DefaultRCond
	}
	return s.RCond
}

// SVDNullSpace finds the null vector from a full-V singular value
// decomposition.
type SVDNullSpace struct {
	// RankTolerance is the relative singular-value threshold used to decide
	// that the null space has more than one dimension. Zero means
	// DefaultRCond.
	RankTolerance float64

	svd mat.SVD
	v   mat.Dense
}

// NewSVDNullSpace returns a null-space solver with the given rank tolerance.
func NewSVDNullSpace(rankTolerance float64) *SVDNullSpace {
	return &SVDNullSpace{RankTolerance: rankTolerance}
}

// NullVector implements NullSpace.
func (s *SVDNullSpace) NullVector(dst *mat.VecDense, a *mat.Dense) error {
	m, n := a.Dims()
	if m < n-1 {
		return fmt.Errorf("null space: %d rows cannot pin a 1-d null space in %d columns: %w", m, n, geom.ErrInvalidInput)
	}
	if ok := s.svd.Factorize(a, mat.SVDFullV); !ok {
		return fmt.Errorf("null space: factorisation failed: %w", geom.ErrNumericalFailure)
	}

	tol := s.RankTolerance
	if tol <= 0 {
		tol = DefaultRCond
	}
	values := s.svd.Values(nil)
	if rank := effectiveRank(values, tol); rank < n-1 {
		return fmt.Errorf("null space: rank %d leaves a %d-d null space: %w", rank, n-rank, geom.ErrNumericalFailure)
	}

	s.v.Reset()
	s.svd.VTo(&s.v)

	// Values are sorted in decreasing order; when m < n the trailing columns
	// of V have implicit zero singular values and the last one is the answer.
	ResizeVec(dst, n)
	for i := 0; i < n; i++ {
		dst.SetVec(i, s.v.At(i, n-1))
	}
	return nil
}

// NearestRotation writes into dst the rotation matrix closest to the square
// matrix m in the Frobenius norm. When the unconstrained optimum is a
// reflection the direction of the smallest singular value is flipped, so the
// result always has determinant +1.
func NearestRotation(dst *mat.Dense, m mat.Matrix) error {
	r, c := m.Dims()
	if r != c {
		return fmt.Errorf("nearest rotation: %dx%d is not square: %w", r, c, geom.ErrInvalidInput)
	}
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDFull); !ok {
		return fmt.Errorf("nearest rotation: factorisation failed: %w", geom.ErrNumericalFailure)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	Resize(dst, r, r)
	dst.Mul(&u, v.T())
	if mat.Det(dst) < 0 {
		// flip the last column of U (smallest singular value)
		for i := 0; i < r; i++ {
			u.Set(i, r-1, -u.At(i, r-1))
		}
		dst.Mul(&u, v.T())
	}
	if !allFinite(dst) {
		return fmt.Errorf("nearest rotation: non-finite result: %w", geom.ErrNumericalFailure)
	}
	return nil
}

// effectiveRank counts singular values above rcond times the largest one.
// values must be sorted in decreasing order.
func effectiveRank(values []float64, rcond float64) int {
	if len(values) == 0 || values[0] == 0 {
		return 0
	}
	limit := rcond * values[0]
	rank := 0
	for _, v := range values {
		if v > limit {
			rank++
		}
	}
	return rank
}

func allFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
