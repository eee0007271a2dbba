package transform

import (
	"fmt"
	"math"

	"github.com/banshee-data/geofit/internal/geom"
)

// Se2 is a 2D rigid motion: a rotation stored as (Cos, Sin) followed by a
// translation (Tx, Ty).
//
//	x' = Cos*x - Sin*y + Tx
//	y' = Sin*x + Cos*y + Ty
type Se2 struct {
	Cos, Sin float64
	Tx, Ty   float64
}

var _ Transform[Se2] = Se2{}

// NewSe2 builds a rigid motion rotating by theta radians (counter-clockwise)
// and then translating by (tx, ty).
func NewSe2(theta, tx, ty float64) Se2 {
	s, c := math.Sincos(theta)
	return Se2{Cos: c, Sin: s, Tx: tx, Ty: ty}
}

// Se2Identity is the identity rigid motion.
func Se2Identity() Se2 { return Se2{Cos: 1} }

func (Se2) Dimension() int { return 2 }

func (Se2) Identity() Se2 { return Se2Identity() }

// Theta returns the rotation angle in (-pi, pi].
func (t Se2) Theta() float64 { return math.Atan2(t.Sin, t.Cos) }

// Apply maps p through the transform.
func (t Se2) Apply(p geom.Point2D) geom.Point2D {
	return geom.Point2D{
		X: t.Cos*p.X - t.Sin*p.Y + t.Tx,
		Y: t.Sin*p.X + t.Cos*p.Y + t.Ty,
	}
}

// Concat returns the motion applying t and then next.
func (t Se2) Concat(next Se2) Se2 {
	return Se2{
		Cos: next.Cos*t.Cos - next.Sin*t.Sin,
		Sin: next.Sin*t.Cos + next.Cos*t.Sin,
		Tx:  next.Cos*t.Tx - next.Sin*t.Ty + next.Tx,
		Ty:  next.Sin*t.Tx + next.Cos*t.Ty + next.Ty,
	}
}

// Invert returns the inverse motion. A rigid motion is always invertible; an
// error is only returned for a degenerate rotation (Cos = Sin = 0).
func (t Se2) Invert() (Se2, error) {
	if t.Cos == 0 && t.Sin == 0 {
		return Se2{}, fmt.Errorf("se2: zero rotation: %w", geom.ErrSingularTransform)
	}
	return Se2{
		Cos: t.Cos,
		Sin: -t.Sin,
		Tx:  -(t.Cos*t.Tx + t.Sin*t.Ty),
		Ty:  -(-t.Sin*t.Tx + t.Cos*t.Ty),
	}, nil
}

// Affine returns t as an affine transform.
func (t Se2) Affine() Affine2D {
	return Affine2D{
		A11: t.Cos, A12: -t.Sin,
		A21: t.Sin, A22: t.Cos,
		Tx: t.Tx, Ty: t.Ty,
	}
}

func (t Se2) String() string {
	return fmt.Sprintf("Se2{theta=%g, t=(%g, %g)}", t.Theta(), t.Tx, t.Ty)
}
