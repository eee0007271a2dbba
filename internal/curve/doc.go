// Package curve finds closest points on parametric curves.
//
// EllipseClosestPoint runs a safeguarded Newton iteration over the angular
// parameter of a rotated ellipse. It never fails on non-convergence: when the
// iteration cap is reached it returns its best estimate with Converged set to
// false.
package curve
