// Package testutil provides shared test fixtures for the estimator packages:
// seeded point clouds, mapping and noise helpers.
package testutil

import (
	"math/rand"

	"github.com/banshee-data/geofit/internal/geom"
)

// CloudHalfWidth is the half width of the cube the random clouds are drawn
// from.
const CloudHalfWidth = 10.0

// RandomPoints2 draws n points uniformly from [-CloudHalfWidth, CloudHalfWidth]².
func RandomPoints2(rng *rand.Rand, n int) []geom.Point2D {
	pts := make([]geom.Point2D, n)
	for i := range pts {
		pts[i] = geom.Pt2(uniform(rng), uniform(rng))
	}
	return pts
}

// RandomPoints3 draws n points uniformly from [-CloudHalfWidth, CloudHalfWidth]³.
func RandomPoints3(rng *rand.Rand, n int) []geom.Point3D {
	pts := make([]geom.Point3D, n)
	for i := range pts {
		pts[i] = geom.Pt3(uniform(rng), uniform(rng), uniform(rng))
	}
	return pts
}

// MapPoints returns f applied to every point. The input is not modified.
func MapPoints[P any](pts []P, f func(P) P) []P {
	out := make([]P, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out
}

// AddNoise2 returns a copy of pts with zero-mean Gaussian noise of standard
// deviation sigma added to each coordinate.
func AddNoise2(rng *rand.Rand, pts []geom.Point2D, sigma float64) []geom.Point2D {
	out := make([]geom.Point2D, len(pts))
	for i, p := range pts {
		out[i] = geom.Pt2(p.X+rng.NormFloat64()*sigma, p.Y+rng.NormFloat64()*sigma)
	}
	return out
}

func uniform(rng *rand.Rand) float64 {
	return (rng.Float64()*2 - 1) * CloudHalfWidth
}
