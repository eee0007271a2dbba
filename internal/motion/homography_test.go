package motion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/geofit/internal/geom"
	"github.com/banshee-data/geofit/internal/testutil"
	"github.com/banshee-data/geofit/internal/transform"
)

func TestHomographyDLT_NoiseFree(t *testing.T) {
	truth := transform.Homography2D{H: [9]float64{
		1.1, 0.2, 30,
		-0.15, 0.95, -12,
		0.0008, -0.0004, 1,
	}}

	for _, n := range []int{4, 5, 25} {
		rng := rand.New(rand.NewSource(int64(n)))
		from := make([]geom.Point2D, n)
		for i := range from {
			from[i] = geom.Pt2(rng.Float64()*200, rng.Float64()*200)
		}
		to := testutil.MapPoints(from, truth.Apply)

		est := NewHomographyDLT(nil)
		require.NoError(t, est.Process(from, to), "n=%d", n)
		got := est.Motion()

		for i := 0; i < 9; i++ {
			assert.InDelta(t, truth.H[i], got.H[i], 1e-6*(1+abs(truth.H[i])), "n=%d H[%d]", n, i)
		}
		rmse, err := RMSE(got.Apply, from, to)
		require.NoError(t, err)
		assert.Less(t, rmse, 1e-6, "n=%d", n)
	}
}

func TestHomographyDLT_AffineSpecialCase(t *testing.T) {
	aff := transform.Affine2D{A11: 2, A12: 0.5, A21: -0.5, A22: 1, Tx: 3, Ty: 4}
	from := []geom.Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 3}}
	to := testutil.MapPoints(from, aff.Apply)

	est := NewHomographyDLT(nil)
	require.NoError(t, est.Process(from, to))
	got := est.Motion()
	assert.InDelta(t, 0, got.H[6], 1e-9)
	assert.InDelta(t, 0, got.H[7], 1e-9)
	assert.InDelta(t, 1, got.H[8], 1e-12)
	assert.InDelta(t, 2, got.H[0], 1e-9)
	assert.InDelta(t, 4, got.H[5], 1e-9)
}

func TestHomographyDLT_InvalidAndDegenerate(t *testing.T) {
	est := NewHomographyDLT(nil)
	assert.Equal(t, 4, est.MinimumPoints())

	three := []geom.Point2D{{0, 0}, {1, 0}, {0, 1}}
	assert.ErrorIs(t, est.Process(three, three), geom.ErrInvalidInput)

	same := []geom.Point2D{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	square := []geom.Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	assert.ErrorIs(t, est.Process(same, square), geom.ErrNumericalFailure)
	assert.ErrorIs(t, est.Process(square, same), geom.ErrNumericalFailure)

	// all four points on one line leave a multi-dimensional null space
	line := []geom.Point2D{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	assert.ErrorIs(t, est.Process(line, line), geom.ErrNumericalFailure)

	assert.Equal(t, transform.Homography2DIdentity(), est.Motion())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
