package motion

import (
	"fmt"
	"math"

	"github.com/banshee-data/geofit/internal/geom"
)

// FitQuality is the assessed quality of a fitted motion.
type FitQuality string

const (
	// FitQualityExcellent indicates RMSE below the Excellent threshold
	FitQualityExcellent FitQuality = "excellent"
	// FitQualityGood indicates RMSE below the Good threshold
	FitQualityGood FitQuality = "good"
	// FitQualityFair indicates RMSE below the Fair threshold - usable but worth refitting
	FitQualityFair FitQuality = "fair"
	// FitQualityPoor indicates RMSE at or above the Fair threshold
	FitQualityPoor FitQuality = "poor"
	// FitQualityUnknown indicates RMSE could not be computed
	FitQualityUnknown FitQuality = "unknown"
)

// RotationValidationTolerance is the tolerance for checking rotation matrix
// validity.
const RotationValidationTolerance = 0.01

// QualityThresholds are the RMSE bounds, in the caller's units, separating
// the quality grades. They must be increasing.
type QualityThresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// DefaultQualityThresholds returns thresholds suited to metre-scale data.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{Excellent: 0.05, Good: 0.15, Fair: 0.30}
}

// FitReport contains the residual assessment of a fitted motion.
type FitReport struct {
	RMSE    float64
	Quality FitQuality
	Issues  []string
}

// Usable reports whether the fit is good enough to use without refitting.
func (r FitReport) Usable() bool {
	return r.Quality == FitQualityExcellent || r.Quality == FitQualityGood || r.Quality == FitQualityFair
}

// metricPoint is satisfied by geom.Point2D and geom.Point3D.
type metricPoint[P any] interface {
	Distance(P) float64
}

// RMSE returns the root mean square distance between apply(from[i]) and
// to[i].
func RMSE[P metricPoint[P]](apply func(P) P, from, to []P) (float64, error) {
	if len(from) != len(to) {
		return 0, fmt.Errorf("rmse: %d from points but %d to points: %w", len(from), len(to), geom.ErrInvalidInput)
	}
	if len(from) == 0 {
		return 0, fmt.Errorf("rmse: no correspondences: %w", geom.ErrInvalidInput)
	}
	var sum float64
	for i := range from {
		d := apply(from[i]).Distance(to[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(from))), nil
}

// GradeFit maps an RMSE onto a quality grade. NaN grades as unknown.
func GradeFit(rmse float64, th QualityThresholds) FitQuality {
	switch {
	case math.IsNaN(rmse):
		return FitQualityUnknown
	case rmse < th.Excellent:
		return FitQualityExcellent
	case rmse < th.Good:
		return FitQualityGood
	case rmse < th.Fair:
		return FitQualityFair
	default:
		return FitQualityPoor
	}
}

// Assess computes the residual of apply over the correspondences and grades
// it.
func Assess[P metricPoint[P]](apply func(P) P, from, to []P, th QualityThresholds) FitReport {
	report := FitReport{
		RMSE:    math.NaN(),
		Quality: FitQualityUnknown,
		Issues:  make([]string, 0),
	}

	rmse, err := RMSE(apply, from, to)
	if err != nil {
		report.Issues = append(report.Issues, err.Error())
		return report
	}
	report.RMSE = rmse
	report.Quality = GradeFit(rmse, th)

	switch report.Quality {
	case FitQualityFair:
		report.Issues = append(report.Issues, "fit quality is fair - consider more or cleaner correspondences")
	case FitQualityPoor:
		report.Issues = append(report.Issues, "fit quality is poor - model or correspondences are wrong")
	}
	return report
}

// ValidateRotation3D checks that a row-major 3x3 matrix is a proper rotation:
// orthonormal rows and determinant +1, each within
// RotationValidationTolerance.
func ValidateRotation3D(r [9]float64) bool {
	det := r[0]*(r[4]*r[8]-r[5]*r[7]) - r[1]*(r[3]*r[8]-r[5]*r[6]) + r[2]*(r[3]*r[7]-r[4]*r[6])
	if math.Abs(det-1.0) > RotationValidationTolerance {
		return false
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := r[i*3]*r[j*3] + r[i*3+1]*r[j*3+1] + r[i*3+2]*r[j*3+2]
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(dot-want) > RotationValidationTolerance {
				return false
			}
		}
	}
	return true
}
