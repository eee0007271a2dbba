package motion

import (
	"fmt"

	"github.com/banshee-data/geofit/internal/geom"
)

// Estimator fits a transform of type T to correspondences of point type P.
type Estimator[P, T any] interface {
	// MinimumPoints is the smallest correspondence count Process accepts.
	MinimumPoints() int
	// Process fits a transform mapping from[i] onto to[i]. It returns an
	// error wrapping geom.ErrInvalidInput when the slices differ in length or
	// are shorter than MinimumPoints, and geom.ErrNumericalFailure when the
	// solve fails. On error the previous Motion is kept.
	Process(from, to []P) error
	// Motion returns the most recent successful fit.
	Motion() T
}

// checkCorrespondences validates the shared preconditions of every estimator.
func checkCorrespondences(name string, nFrom, nTo, minimum int) error {
	if nFrom != nTo {
		return fmt.Errorf("%s: %d from points but %d to points: %w", name, nFrom, nTo, geom.ErrInvalidInput)
	}
	if nFrom < minimum {
		return fmt.Errorf("%s: %d correspondences, need at least %d: %w", name, nFrom, minimum, geom.ErrInvalidInput)
	}
	return nil
}
