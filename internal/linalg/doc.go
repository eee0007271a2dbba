// Package linalg is the dense linear-algebra boundary used by the estimators
// and solvers. It wraps gonum's QR and SVD factorisations behind two small
// strategy interfaces, LeastSquares and NullSpace, so a caller can swap in a
// faster or more robust solver without touching the estimators.
//
// Solvers keep their factorisation workspaces between calls. None of them are
// safe for concurrent use.
package linalg
