package geom

import "errors"

// Sentinel errors shared by every solver in this module. Callers match them
// with errors.Is; solvers add context with fmt.Errorf("...: %w", err).
var (
	// ErrInvalidInput is returned when a precondition is violated: mismatched
	// correspondence lengths, too few points or lines, or a solver used
	// before it was configured.
	ErrInvalidInput = errors.New("geom: invalid input")

	// ErrSingularTransform is returned when inverting a transform whose
	// linear part is not invertible.
	ErrSingularTransform = errors.New("geom: singular transform")

	// ErrNumericalFailure is returned when the underlying linear solve could
	// not produce a stable result (rank deficiency, failed factorisation).
	ErrNumericalFailure = errors.New("geom: numerical failure")
)
