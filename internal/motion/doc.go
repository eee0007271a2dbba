// Package motion estimates the transform that best maps one point set onto a
// matched point set.
//
// Every estimator satisfies Estimator: Process takes two index-aligned
// correspondence slices (from[i] matches to[i]) and, on success, Motion
// returns the transform minimising the sum of squared residuals
// |Motion().Apply(from[i]) - to[i]|^2.
//
// Two solving strategies are provided:
//
//   - linear least squares (AffineLeastSquares2D, RigidLeastSquares2D), which
//     stack correspondences into a design matrix and hand it to a
//     linalg.LeastSquares strategy;
//   - closed-form cross-covariance (RigidCovariance2D, RigidCovariance3D),
//     which centre both sets and extract the rotation from the SVD of their
//     cross-covariance.
//
// HomographyDLT fits a projective transform through a linalg.NullSpace.
//
// Estimators keep scratch matrices between calls and are not safe for
// concurrent use.
package motion
