package geom

import (
	"fmt"
	"math"
)

// Point2D is a point in the plane.
type Point2D struct {
	X, Y float64
}

// Pt2 is shorthand for Point2D{x, y}.
func Pt2(x, y float64) Point2D { return Point2D{X: x, Y: y} }

func (p Point2D) Add(o Point2D) Point2D   { return Point2D{p.X + o.X, p.Y + o.Y} }
func (p Point2D) Sub(o Point2D) Point2D   { return Point2D{p.X - o.X, p.Y - o.Y} }
func (p Point2D) Scale(s float64) Point2D { return Point2D{p.X * s, p.Y * s} }

// Dot returns the dot product of p and o treated as vectors.
func (p Point2D) Dot(o Point2D) float64 { return p.X*o.X + p.Y*o.Y }

// Cross returns the z component of the cross product of p and o.
func (p Point2D) Cross(o Point2D) float64 { return p.X*o.Y - p.Y*o.X }

// Norm returns the Euclidean length of p treated as a vector.
func (p Point2D) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and o.
func (p Point2D) Distance(o Point2D) float64 { return p.Sub(o).Norm() }

func (p Point2D) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Point3D is a point in 3-space.
type Point3D struct {
	X, Y, Z float64
}

// Pt3 is shorthand for Point3D{x, y, z}.
func Pt3(x, y, z float64) Point3D { return Point3D{X: x, Y: y, Z: z} }

func (p Point3D) Add(o Point3D) Point3D   { return Point3D{p.X + o.X, p.Y + o.Y, p.Z + o.Z} }
func (p Point3D) Sub(o Point3D) Point3D   { return Point3D{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }
func (p Point3D) Scale(s float64) Point3D { return Point3D{p.X * s, p.Y * s, p.Z * s} }

// Dot returns the dot product of p and o treated as vectors.
func (p Point3D) Dot(o Point3D) float64 { return p.X*o.X + p.Y*o.Y + p.Z*o.Z }

// Norm returns the Euclidean length of p treated as a vector.
func (p Point3D) Norm() float64 { return math.Sqrt(p.Dot(p)) }

// Distance returns the Euclidean distance between p and o.
func (p Point3D) Distance(o Point3D) float64 { return p.Sub(o).Norm() }

func (p Point3D) String() string { return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z) }

// Centroid2D returns the mean of pts. It returns the zero point for an empty
// slice.
func Centroid2D(pts []Point2D) Point2D {
	if len(pts) == 0 {
		return Point2D{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point2D{sx / n, sy / n}
}

// Centroid3D returns the mean of pts. It returns the zero point for an empty
// slice.
func Centroid3D(pts []Point3D) Point3D {
	if len(pts) == 0 {
		return Point3D{}
	}
	var sx, sy, sz float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
		sz += p.Z
	}
	n := float64(len(pts))
	return Point3D{sx / n, sy / n, sz / n}
}
