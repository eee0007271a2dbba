package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/geofit/internal/curve"
	"github.com/banshee-data/geofit/internal/linalg"
	"github.com/banshee-data/geofit/internal/motion"
)

// DefaultConfigPath is the path to the canonical solver defaults file.
const DefaultConfigPath = "config/geofit.defaults.json"

// Least-squares strategy names accepted by least_squares.
const (
	LeastSquaresQR  = "qr"
	LeastSquaresSVD = "svd"
)

// FitConfig holds the numeric knobs of the solvers. Every field is optional;
// the Get* methods supply defaults for fields left out of the JSON.
type FitConfig struct {
	// Ellipse closest-point solver
	EllipseTolerance     *float64 `json:"ellipse_tolerance,omitempty"`
	EllipseMaxIterations *int     `json:"ellipse_max_iterations,omitempty"`

	// Linear algebra
	LeastSquaresSolver     *string  `json:"least_squares,omitempty"` // "qr" or "svd"
	SVDRCond               *float64 `json:"svd_rcond,omitempty"`
	NullSpaceRankTolerance *float64 `json:"null_space_rank_tolerance,omitempty"`

	// Fit quality grading (RMSE, caller units)
	RMSEExcellent *float64 `json:"rmse_excellent,omitempty"`
	RMSEGood      *float64 `json:"rmse_good,omitempty"`
	RMSEFair      *float64 `json:"rmse_fair,omitempty"`
}

// EmptyFitConfig returns a FitConfig with all fields unset.
func EmptyFitConfig() *FitConfig {
	return &FitConfig{}
}

// LoadFitConfig loads a FitConfig from a JSON file. The path must have a
// .json extension and the file must be under 1MB. Omitted fields keep their
// defaults, so partial configs are safe.
func LoadFitConfig(path string) (*FitConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyFitConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. It panics when the
// file cannot be found; it is intended for tests and the demo command.
func MustLoadDefaultConfig() *FitConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from cmd/geofit/ or internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadFitConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks that the set fields hold usable values.
func (c *FitConfig) Validate() error {
	if c.EllipseTolerance != nil && !(*c.EllipseTolerance > 0) {
		return fmt.Errorf("ellipse_tolerance must be positive, got %g", *c.EllipseTolerance)
	}
	if c.EllipseMaxIterations != nil && *c.EllipseMaxIterations < 1 {
		return fmt.Errorf("ellipse_max_iterations must be at least 1, got %d", *c.EllipseMaxIterations)
	}

	if c.LeastSquaresSolver != nil {
		switch *c.LeastSquaresSolver {
		case LeastSquaresQR, LeastSquaresSVD:
		default:
			return fmt.Errorf("least_squares must be %q or %q, got %q", LeastSquaresQR, LeastSquaresSVD, *c.LeastSquaresSolver)
		}
	}
	if c.SVDRCond != nil && (*c.SVDRCond <= 0 || *c.SVDRCond >= 1) {
		return fmt.Errorf("svd_rcond must be between 0 and 1, got %g", *c.SVDRCond)
	}
	if c.NullSpaceRankTolerance != nil && (*c.NullSpaceRankTolerance <= 0 || *c.NullSpaceRankTolerance >= 1) {
		return fmt.Errorf("null_space_rank_tolerance must be between 0 and 1, got %g", *c.NullSpaceRankTolerance)
	}

	th := c.QualityThresholds()
	if th.Excellent <= 0 {
		return fmt.Errorf("rmse_excellent must be positive, got %g", th.Excellent)
	}
	if th.Good <= th.Excellent || th.Fair <= th.Good {
		return fmt.Errorf("rmse thresholds must increase: excellent=%g good=%g fair=%g", th.Excellent, th.Good, th.Fair)
	}

	return nil
}

// GetEllipseTolerance returns the ellipse_tolerance value or the default.
func (c *FitConfig) GetEllipseTolerance() float64 {
	if c.EllipseTolerance == nil {
		return curve.DefaultTolerance
	}
	return *c.EllipseTolerance
}

// GetEllipseMaxIterations returns the ellipse_max_iterations value or the default.
func (c *FitConfig) GetEllipseMaxIterations() int {
	if c.EllipseMaxIterations == nil {
		return curve.DefaultMaxIterations
	}
	return *c.EllipseMaxIterations
}

// GetLeastSquaresSolver returns the least_squares value or the default.
func (c *FitConfig) GetLeastSquaresSolver() string {
	if c.LeastSquaresSolver == nil || *c.LeastSquaresSolver == "" {
		return LeastSquaresQR
	}
	return *c.LeastSquaresSolver
}

// GetSVDRCond returns the svd_rcond value or the default.
func (c *FitConfig) GetSVDRCond() float64 {
	if c.SVDRCond == nil {
		return linalg.DefaultRCond
	}
	return *c.SVDRCond
}

// GetNullSpaceRankTolerance returns the null_space_rank_tolerance value or the default.
func (c *FitConfig) GetNullSpaceRankTolerance() float64 {
	if c.NullSpaceRankTolerance == nil {
		return linalg.DefaultRCond
	}
	return *c.NullSpaceRankTolerance
}

// QualityThresholds returns the RMSE grading thresholds, defaulting each
// unset bound.
func (c *FitConfig) QualityThresholds() motion.QualityThresholds {
	th := motion.DefaultQualityThresholds()
	if c.RMSEExcellent != nil {
		th.Excellent = *c.RMSEExcellent
	}
	if c.RMSEGood != nil {
		th.Good = *c.RMSEGood
	}
	if c.RMSEFair != nil {
		th.Fair = *c.RMSEFair
	}
	return th
}

// LeastSquares builds the configured least-squares strategy.
func (c *FitConfig) LeastSquares() linalg.LeastSquares {
	if c.GetLeastSquaresSolver() == LeastSquaresSVD {
		return linalg.NewSVDLeastSquares(c.GetSVDRCond())
	}
	return linalg.NewQRLeastSquares()
}

// NullSpace builds the configured null-space strategy.
func (c *FitConfig) NullSpace() linalg.NullSpace {
	return linalg.NewSVDNullSpace(c.GetNullSpaceRankTolerance())
}

// EllipseSolver builds an ellipse closest-point solver with the configured
// tolerance and iteration cap.
func (c *FitConfig) EllipseSolver() *curve.EllipseClosestPoint {
	return curve.NewEllipseClosestPoint(c.GetEllipseTolerance(), c.GetEllipseMaxIterations())
}
