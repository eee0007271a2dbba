package curve

import (
	"fmt"
	"math"

	"github.com/banshee-data/geofit/internal/geom"
	"github.com/banshee-data/geofit/internal/monitoring"
)

// Defaults applied when NewEllipseClosestPoint is given non-positive values.
const (
	DefaultTolerance     = 1e-12
	DefaultMaxIterations = 100
)

// SolverState is the lifecycle state of an EllipseClosestPoint.
type SolverState int

const (
	// StateIdle means no ellipse has been bound yet.
	StateIdle SolverState = iota
	// StateConfigured means an ellipse is bound and no query has run since.
	StateConfigured
	// StateConverged means the last query met the tolerance.
	StateConverged
	// StateMaxIterations means the last query hit the iteration cap and
	// returned a best-effort estimate.
	StateMaxIterations
)

func (s SolverState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateConverged:
		return "converged"
	case StateMaxIterations:
		return "max-iterations"
	default:
		return fmt.Sprintf("SolverState(%d)", int(s))
	}
}

// ClosestPoint is the result of one query.
type ClosestPoint struct {
	// Point is the closest point on the ellipse, in the same frame as the
	// query and the ellipse centre.
	Point geom.Point2D
	// Theta is the ellipse's angular parameter at Point (see
	// geom.EllipseRotated.PointAt).
	Theta float64
	// Distance is the Euclidean distance from the query to Point.
	Distance float64
	// Iterations is the number of Newton steps taken; closed-form cases
	// report zero.
	Iterations int
	// Converged is false when the iteration cap was reached first.
	Converged bool
}

// EllipseClosestPoint finds the point on a rotated ellipse closest to a query
// point. Bind the curve with SetEllipse, then call Process per query. An
// instance is not safe for concurrent use.
type EllipseClosestPoint struct {
	tol     float64
	maxIter int

	ellipse geom.EllipseRotated
	state   SolverState
}

// NewEllipseClosestPoint returns a solver that stops when successive angle
// updates or the normalised normal residual drop below tol, or after
// maxIterations steps.
func NewEllipseClosestPoint(tol float64, maxIterations int) *EllipseClosestPoint {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &EllipseClosestPoint{tol: tol, maxIter: maxIterations}
}

// SetEllipse binds the curve used by subsequent queries. Both semi-axes must
// be positive and finite.
func (s *EllipseClosestPoint) SetEllipse(e geom.EllipseRotated) error {
	if !(e.A > 0) || !(e.B > 0) || math.IsInf(e.A, 0) || math.IsInf(e.B, 0) {
		return fmt.Errorf("ellipse closest point: semi-axes (%g, %g) must be positive: %w", e.A, e.B, geom.ErrInvalidInput)
	}
	s.ellipse = e
	s.state = StateConfigured
	return nil
}

// Ellipse returns the bound curve.
func (s *EllipseClosestPoint) Ellipse() geom.EllipseRotated { return s.ellipse }

// State returns the solver's lifecycle state.
func (s *EllipseClosestPoint) State() SolverState { return s.state }

// Process returns the point on the bound ellipse closest to q. It fails only
// when no ellipse is bound.
func (s *EllipseClosestPoint) Process(q geom.Point2D) (ClosestPoint, error) {
	if s.state == StateIdle {
		return ClosestPoint{}, fmt.Errorf("ellipse closest point: no ellipse set: %w", geom.ErrInvalidInput)
	}

	e := s.ellipse
	local := e.ToLocal(q)

	// Work with the major axis along +X. For a taller-than-wide ellipse the
	// frame is turned a quarter turn and the parameter shifted back after.
	a, b := e.A, e.B
	x, y := local.X, local.Y
	swapped := a < b
	if swapped {
		a, b = b, a
		x, y = y, -x
	}

	// Scale to a == 1 so the residual tolerance is dimensionless.
	x /= a
	y /= a
	b /= a
	a = 1

	theta, iters, converged := s.solve(a, b, x, y)
	if swapped {
		theta += math.Pi / 2
	}
	theta = math.Remainder(theta, 2*math.Pi)

	if converged {
		s.state = StateConverged
	} else {
		s.state = StateMaxIterations
		monitoring.Debugf("ellipse closest point: no convergence after %d iterations for query %v", iters, q)
	}

	p := e.PointAt(theta)
	return ClosestPoint{
		Point:      p,
		Theta:      theta,
		Distance:   p.Distance(q),
		Iterations: iters,
		Converged:  converged,
	}, nil
}

// solve finds the parameter of the closest point on the axis-aligned ellipse
// (a*cos t, b*sin t), a >= b, to (x, y).
func (s *EllipseClosestPoint) solve(a, b, x, y float64) (theta float64, iters int, converged bool) {
	if a == b {
		if x == 0 && y == 0 {
			return 0, 0, true
		}
		return math.Atan2(y, x), 0, true
	}

	// By symmetry the answer lies in the query's quadrant; solve in the
	// first quadrant and reflect back.
	ax, ay := math.Abs(x), math.Abs(y)
	c2 := a*a - b*b

	switch {
	case ay == 0:
		// On the major axis: inside the evolute the nearest point leaves the
		// axis, otherwise it is the vertex.
		if ax*a < c2 {
			theta = math.Acos(ax * a / c2)
		}
		iters, converged = 0, true
	case ax == 0:
		theta = math.Pi / 2
		iters, converged = 0, true
	default:
		theta, iters, converged = s.newton(a, b, ax, ay, c2)
	}

	if x < 0 {
		theta = math.Pi - theta
	}
	if y < 0 {
		theta = -theta
	}
	return theta, iters, converged
}

// newton runs a bracketed Newton iteration on the stationarity condition
//
//	f(t) = c2*sin(t)*cos(t) - x*a*sin(t) + y*b*cos(t) = 0
//
// for x, y > 0. f(0) = y*b > 0 and f(pi/2) = -x*a < 0 with a single root in
// between; steps leaving the bracket fall back to bisection so the derivative
// never needs to be divided when it vanishes.
func (s *EllipseClosestPoint) newton(a, b, x, y, c2 float64) (float64, int, bool) {
	lo, hi := 0.0, math.Pi/2
	theta := math.Atan2(a*y, b*x)

	for i := 1; i <= s.maxIter; i++ {
		st, ct := math.Sincos(theta)
		f := c2*st*ct - x*a*st + y*b*ct
		if math.Abs(f) < s.tol {
			return theta, i, true
		}
		if f > 0 {
			lo = theta
		} else {
			hi = theta
		}

		df := c2*(ct*ct-st*st) - x*a*ct - y*b*st
		next := (lo + hi) / 2
		if df != 0 {
			if step := theta - f/df; step > lo && step < hi {
				next = step
			}
		}

		delta := math.Abs(next - theta)
		theta = next
		if delta < s.tol {
			return theta, i, true
		}
	}
	return theta, s.maxIter, false
}
