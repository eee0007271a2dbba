package linalg

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/geofit/internal/geom"
)

func leastSquaresSolvers() map[string]LeastSquares {
	return map[string]LeastSquares{
		"qr":  NewQRLeastSquares(),
		"svd": NewSVDLeastSquares(0),
	}
}

func TestLeastSquares_ExactSystem(t *testing.T) {
	// y = 2x + 1 and z = -x + 3 sampled exactly
	a := mat.NewDense(4, 2, []float64{
		0, 1,
		1, 1,
		2, 1,
		3, 1,
	})
	b := mat.NewDense(4, 2, []float64{
		1, 3,
		3, 2,
		5, 1,
		7, 0,
	})

	for name, solver := range leastSquaresSolvers() {
		t.Run(name, func(t *testing.T) {
			var x mat.Dense
			require.NoError(t, solver.Solve(&x, a, b))
			r, c := x.Dims()
			require.Equal(t, 2, r)
			require.Equal(t, 2, c)
			assert.InDelta(t, 2.0, x.At(0, 0), 1e-12)
			assert.InDelta(t, 1.0, x.At(1, 0), 1e-12)
			assert.InDelta(t, -1.0, x.At(0, 1), 1e-12)
			assert.InDelta(t, 3.0, x.At(1, 1), 1e-12)
		})
	}
}

func TestLeastSquares_Overdetermined(t *testing.T) {
	// Noisy symmetric residuals around y = x cancel exactly.
	a := mat.NewDense(4, 2, []float64{
		0, 1,
		1, 1,
		2, 1,
		3, 1,
	})
	b := mat.NewDense(4, 1, []float64{0.1, 0.9, 2.1, 2.9})

	want := mat.NewDense(2, 1, nil)
	{
		// normal equations reference
		var ata, atb, inv mat.Dense
		ata.Mul(a.T(), a)
		atb.Mul(a.T(), b)
		require.NoError(t, inv.Inverse(&ata))
		want.Mul(&inv, &atb)
	}

	for name, solver := range leastSquaresSolvers() {
		t.Run(name, func(t *testing.T) {
			var x mat.Dense
			require.NoError(t, solver.Solve(&x, a, b))
			assert.True(t, mat.EqualApprox(want, &x, 1e-10), "got %v want %v", mat.Formatted(&x), mat.Formatted(want))
		})
	}
}

func TestLeastSquares_RankDeficient(t *testing.T) {
	// second column carries no information
	a := mat.NewDense(3, 2, []float64{
		1, 0,
		2, 0,
		3, 0,
	})
	b := mat.NewDense(3, 1, []float64{1, 2, 3})

	for name, solver := range leastSquaresSolvers() {
		t.Run(name, func(t *testing.T) {
			var x mat.Dense
			err := solver.Solve(&x, a, b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, geom.ErrNumericalFailure), "unexpected error %v", err)
		})
	}
}

func TestLeastSquares_Underdetermined(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{1, 1})
	b := mat.NewDense(1, 1, []float64{1})
	for name, solver := range leastSquaresSolvers() {
		t.Run(name, func(t *testing.T) {
			var x mat.Dense
			err := solver.Solve(&x, a, b)
			assert.ErrorIs(t, err, geom.ErrInvalidInput)
		})
	}
}

func TestSVDNullSpace(t *testing.T) {
	// rows orthogonal to (1, 2, 3)
	a := mat.NewDense(3, 3, []float64{
		3, 0, -1,
		0, 3, -2,
		2, -1, 0,
	})
	ns := NewSVDNullSpace(0)
	var v mat.VecDense
	require.NoError(t, ns.NullVector(&v, a))
	require.Equal(t, 3, v.Len())

	assert.InDelta(t, 1.0, mat.Norm(&v, 2), 1e-12)
	scale := v.AtVec(0)
	require.NotZero(t, scale)
	assert.InDelta(t, 2.0, v.AtVec(1)/scale, 1e-10)
	assert.InDelta(t, 3.0, v.AtVec(2)/scale, 1e-10)
}

func TestSVDNullSpace_WideMatrix(t *testing.T) {
	// two rows in three columns still pin a 1-d null space
	a := mat.NewDense(2, 3, []float64{
		1, 0, 0,
		0, 1, 0,
	})
	var v mat.VecDense
	require.NoError(t, NewSVDNullSpace(0).NullVector(&v, a))
	assert.InDelta(t, 1.0, math.Abs(v.AtVec(2)), 1e-12)
}

func TestSVDNullSpace_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		a    *mat.Dense
		want error
	}{
		{"duplicate rows", mat.NewDense(2, 3, []float64{1, 2, 3, 2, 4, 6}), geom.ErrNumericalFailure},
		{"too few rows", mat.NewDense(1, 3, []float64{1, 2, 3}), geom.ErrInvalidInput},
		{"zero matrix", mat.NewDense(3, 3, nil), geom.ErrNumericalFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v mat.VecDense
			err := NewSVDNullSpace(0).NullVector(&v, tt.a)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNearestRotation(t *testing.T) {
	th := 0.7
	c, s := math.Cos(th), math.Sin(th)
	// a rotation scaled anisotropically along its own axes
	m := mat.NewDense(2, 2, []float64{
		3 * c, -0.5 * s,
		3 * s, 0.5 * c,
	})
	var r mat.Dense
	require.NoError(t, NearestRotation(&r, m))
	assert.InDelta(t, 1.0, mat.Det(&r), 1e-12)
	assert.InDelta(t, c, r.At(0, 0), 1e-12)
	assert.InDelta(t, s, r.At(1, 0), 1e-12)
}

func TestNearestRotation_Reflection(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, -1,
	})
	var r mat.Dense
	require.NoError(t, NearestRotation(&r, m))
	assert.InDelta(t, 1.0, mat.Det(&r), 1e-12)

	var rtr mat.Dense
	rtr.Mul(r.T(), &r)
	assert.True(t, mat.EqualApprox(&rtr, eye(3), 1e-12))
}

func TestResize_ClearsStaleValues(t *testing.T) {
	var m mat.Dense
	Resize(&m, 4, 3)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, 7)
		}
	}
	Resize(&m, 2, 3)
	r, c := m.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) != 0 {
				t.Fatalf("stale value %g at (%d,%d)", m.At(i, j), i, j)
			}
		}
	}

	var v mat.VecDense
	ResizeVec(&v, 5)
	v.SetVec(4, 1)
	ResizeVec(&v, 3)
	assert.Equal(t, 3, v.Len())
	assert.Zero(t, mat.Sum(&v))
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
