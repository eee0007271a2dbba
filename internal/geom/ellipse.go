package geom

import "math"

// EllipseRotated is an ellipse with centre Center, semi-major axis A along
// the direction Phi (radians, counter-clockwise from +X) and semi-minor
// axis B. A == B describes a circle.
type EllipseRotated struct {
	Center Point2D
	A, B   float64
	Phi    float64
}

// PointAt evaluates the ellipse at angular parameter theta.
func (e EllipseRotated) PointAt(theta float64) Point2D {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(e.Phi)
	x := e.A * ct
	y := e.B * st
	return Point2D{
		X: e.Center.X + x*cp - y*sp,
		Y: e.Center.Y + x*sp + y*cp,
	}
}

// ToLocal maps p into the ellipse's own frame: centred at the origin with the
// major axis along +X.
func (e EllipseRotated) ToLocal(p Point2D) Point2D {
	sp, cp := math.Sincos(e.Phi)
	dx := p.X - e.Center.X
	dy := p.Y - e.Center.Y
	return Point2D{
		X: dx*cp + dy*sp,
		Y: -dx*sp + dy*cp,
	}
}

// IsCircle reports whether the semi-axes are equal.
func (e EllipseRotated) IsCircle() bool {
	return e.A == e.B
}
