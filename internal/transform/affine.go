package transform

import (
	"fmt"

	"github.com/banshee-data/geofit/internal/geom"
)

// Affine2D is a 2D affine transform: a linear block followed by a translation.
//
//	| A11 A12 Tx |
//	| A21 A22 Ty |
//	|  0   0   1 |
type Affine2D struct {
	A11, A12 float64
	A21, A22 float64
	Tx, Ty   float64
}

var _ Transform[Affine2D] = Affine2D{}

// Affine2DIdentity is the identity affine transform.
func Affine2DIdentity() Affine2D { return Affine2D{A11: 1, A22: 1} }

func (Affine2D) Dimension() int { return 2 }

func (Affine2D) Identity() Affine2D { return Affine2DIdentity() }

// Det returns the determinant of the linear block.
func (t Affine2D) Det() float64 { return t.A11*t.A22 - t.A12*t.A21 }

// Apply maps p through the transform.
func (t Affine2D) Apply(p geom.Point2D) geom.Point2D {
	return geom.Point2D{
		X: t.A11*p.X + t.A12*p.Y + t.Tx,
		Y: t.A21*p.X + t.A22*p.Y + t.Ty,
	}
}

// Concat returns the transform applying t and then next.
func (t Affine2D) Concat(next Affine2D) Affine2D {
	return Affine2D{
		A11: next.A11*t.A11 + next.A12*t.A21,
		A12: next.A11*t.A12 + next.A12*t.A22,
		A21: next.A21*t.A11 + next.A22*t.A21,
		A22: next.A21*t.A12 + next.A22*t.A22,
		Tx:  next.A11*t.Tx + next.A12*t.Ty + next.Tx,
		Ty:  next.A21*t.Tx + next.A22*t.Ty + next.Ty,
	}
}

// Invert returns the inverse transform. It fails with
// geom.ErrSingularTransform when the linear block has a negligible
// determinant.
func (t Affine2D) Invert() (Affine2D, error) {
	det := t.Det()
	if nearlySingular2(det, t.A11, t.A12, t.A21, t.A22) {
		return Affine2D{}, fmt.Errorf("affine2d: determinant %g: %w", det, geom.ErrSingularTransform)
	}
	inv := Affine2D{
		A11: t.A22 / det,
		A12: -t.A12 / det,
		A21: -t.A21 / det,
		A22: t.A11 / det,
	}
	inv.Tx = -(inv.A11*t.Tx + inv.A12*t.Ty)
	inv.Ty = -(inv.A21*t.Tx + inv.A22*t.Ty)
	return inv, nil
}

// Homography returns t as a projective transform.
func (t Affine2D) Homography() Homography2D {
	return Homography2D{H: [9]float64{
		t.A11, t.A12, t.Tx,
		t.A21, t.A22, t.Ty,
		0, 0, 1,
	}}
}
