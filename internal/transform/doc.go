// Package transform implements the parametric spatial transforms (2D and 3D
// rigid motion, 2D affine, 2D homography) as immutable values sharing one
// algebraic interface, and Sequence, which folds an ordered chain of forward
// and inverted transforms into a single equivalent transform.
//
// Composition convention: a.Concat(b) applies a first and then b. For every
// point p, a.Concat(b).Apply(p) == b.Apply(a.Apply(p)).
package transform
