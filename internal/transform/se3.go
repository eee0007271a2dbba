package transform

import (
	"fmt"
	"math"

	"github.com/banshee-data/geofit/internal/geom"
)

// Se3 is a 3D rigid motion. R is a row-major 3x3 rotation matrix
// (r00, r01, r02, r10, ...) and T the translation applied after it.
type Se3 struct {
	R [9]float64
	T [3]float64
}

var _ Transform[Se3] = Se3{}

// Se3Identity is the identity rigid motion.
func Se3Identity() Se3 {
	return Se3{R: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// NewSe3FromEuler builds a rigid motion from rotations about X, Y and Z (in
// that order, radians) followed by translation t.
func NewSe3FromEuler(rx, ry, rz float64, t geom.Point3D) Se3 {
	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	sz, cz := math.Sincos(rz)
	// R = Rz * Ry * Rx
	return Se3{
		R: [9]float64{
			cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx,
			sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx,
			-sy, cy * sx, cy * cx,
		},
		T: [3]float64{t.X, t.Y, t.Z},
	}
}

func (Se3) Dimension() int { return 3 }

func (Se3) Identity() Se3 { return Se3Identity() }

// Apply maps p through the transform.
func (t Se3) Apply(p geom.Point3D) geom.Point3D {
	r := &t.R
	return geom.Point3D{
		X: r[0]*p.X + r[1]*p.Y + r[2]*p.Z + t.T[0],
		Y: r[3]*p.X + r[4]*p.Y + r[5]*p.Z + t.T[1],
		Z: r[6]*p.X + r[7]*p.Y + r[8]*p.Z + t.T[2],
	}
}

// Concat returns the motion applying t and then next.
func (t Se3) Concat(next Se3) Se3 {
	var out Se3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.R[i*3+j] = next.R[i*3]*t.R[j] + next.R[i*3+1]*t.R[3+j] + next.R[i*3+2]*t.R[6+j]
		}
		out.T[i] = next.R[i*3]*t.T[0] + next.R[i*3+1]*t.T[1] + next.R[i*3+2]*t.T[2] + next.T[i]
	}
	return out
}

// Invert returns the inverse motion (R^T, -R^T*T). It fails only when R has a
// negligible determinant, which a proper rotation never has.
func (t Se3) Invert() (Se3, error) {
	if d := t.Det(); math.Abs(d) <= SingularEpsilon || math.IsNaN(d) {
		return Se3{}, fmt.Errorf("se3: rotation determinant %g: %w", d, geom.ErrSingularTransform)
	}
	var out Se3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.R[i*3+j] = t.R[j*3+i]
		}
	}
	for i := 0; i < 3; i++ {
		out.T[i] = -(out.R[i*3]*t.T[0] + out.R[i*3+1]*t.T[1] + out.R[i*3+2]*t.T[2])
	}
	return out, nil
}

// Det returns the determinant of R.
func (t Se3) Det() float64 {
	r := &t.R
	return r[0]*(r[4]*r[8]-r[5]*r[7]) - r[1]*(r[3]*r[8]-r[5]*r[6]) + r[2]*(r[3]*r[7]-r[4]*r[6])
}

// Matrix4 returns the motion as a row-major 4x4 homogeneous matrix.
func (t Se3) Matrix4() [16]float64 {
	r := &t.R
	return [16]float64{
		r[0], r[1], r[2], t.T[0],
		r[3], r[4], r[5], t.T[1],
		r[6], r[7], r[8], t.T[2],
		0, 0, 0, 1,
	}
}
