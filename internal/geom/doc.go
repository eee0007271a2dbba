// Package geom holds the plain geometric value types shared by the transform,
// motion, curve and intersect packages, plus the sentinel errors they report.
//
// Everything here is a value type: points, general-form lines, homogeneous
// points and rotated ellipses. None of them own memory beyond their fields.
package geom
