package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/geofit/internal/geom"
)

// Homography2D is a planar projective transform stored as a row-major 3x3
// matrix. It is defined up to scale: H and k*H (k != 0) describe the same
// mapping.
type Homography2D struct {
	H [9]float64
}

var _ Transform[Homography2D] = Homography2D{}

// Homography2DIdentity is the identity homography.
func Homography2DIdentity() Homography2D {
	return Homography2D{H: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

func (Homography2D) Dimension() int { return 2 }

func (Homography2D) Identity() Homography2D { return Homography2DIdentity() }

// ApplyHomogeneous maps a homogeneous point through H.
func (t Homography2D) ApplyHomogeneous(p geom.Homogeneous2D) geom.Homogeneous2D {
	h := &t.H
	return geom.Homogeneous2D{
		X: h[0]*p.X + h[1]*p.Y + h[2]*p.W,
		Y: h[3]*p.X + h[4]*p.Y + h[5]*p.W,
		W: h[6]*p.X + h[7]*p.Y + h[8]*p.W,
	}
}

// Apply maps a Euclidean point through H. Points sent to infinity come back
// with infinite or NaN coordinates.
func (t Homography2D) Apply(p geom.Point2D) geom.Point2D {
	q := t.ApplyHomogeneous(geom.Homogenize(p))
	return geom.Point2D{X: q.X / q.W, Y: q.Y / q.W}
}

// Concat returns the homography applying t and then next (next.H * t.H).
func (t Homography2D) Concat(next Homography2D) Homography2D {
	var out Homography2D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.H[i*3+j] = next.H[i*3]*t.H[j] + next.H[i*3+1]*t.H[3+j] + next.H[i*3+2]*t.H[6+j]
		}
	}
	return out
}

// Invert returns the inverse homography, normalised with Normalize. It fails
// with geom.ErrSingularTransform when H is (numerically) singular.
func (t Homography2D) Invert() (Homography2D, error) {
	h := mat.NewDense(3, 3, t.H[:])
	scale := mat.Norm(h, math.Inf(1))
	if scale == 0 || math.IsNaN(scale) {
		return Homography2D{}, fmt.Errorf("homography: zero matrix: %w", geom.ErrSingularTransform)
	}
	if det := mat.Det(h); math.Abs(det) <= SingularEpsilon*scale*scale*scale {
		return Homography2D{}, fmt.Errorf("homography: determinant %g: %w", det, geom.ErrSingularTransform)
	}

	var inv mat.Dense
	if err := inv.Inverse(h); err != nil {
		return Homography2D{}, fmt.Errorf("homography: %v: %w", err, geom.ErrSingularTransform)
	}
	var out Homography2D
	copy(out.H[:], inv.RawMatrix().Data)
	return out.Normalize(), nil
}

// Normalize rescales H so that H[8] == 1, or to unit Frobenius norm when
// H[8] is zero. The mapping is unchanged.
func (t Homography2D) Normalize() Homography2D {
	s := t.H[8]
	if s == 0 {
		var sum float64
		for _, v := range t.H {
			sum += v * v
		}
		s = math.Sqrt(sum)
		if s == 0 {
			return t
		}
	}
	var out Homography2D
	for i, v := range t.H {
		out.H[i] = v / s
	}
	return out
}
