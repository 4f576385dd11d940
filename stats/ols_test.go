package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goquant/timeseries"
)

func TestOLSExactFit(t *testing.T) {
	// y = 2 + 3x, no noise.
	rows := make([][]float64, 20)
	y := make([]float64, 20)
	for i := range rows {
		x := float64(i)
		rows[i] = []float64{1, x}
		y[i] = 2 + 3*x
	}

	res, err := OLS(Design(rows), y)
	require.NoError(t, err)

	require.Len(t, res.Coeffs, 2)
	assert.InDelta(t, 2, res.Coeffs[0], 1e-8)
	assert.InDelta(t, 3, res.Coeffs[1], 1e-8)
	assert.InDelta(t, 1, res.R2, 1e-10)
	assert.InDelta(t, 0, res.RSS, 1e-8)
}

func TestOLSNoisyFit(t *testing.T) {
	// Deterministic pseudo-noise keeps the test reproducible.
	rows := make([][]float64, 50)
	y := make([]float64, 50)
	for i := range rows {
		x := float64(i)
		noise := float64(i%7-3) / 10
		rows[i] = []float64{1, x}
		y[i] = 1 + 0.5*x + noise
	}

	res, err := OLS(Design(rows), y)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Coeffs[1], 0.05)
	assert.Greater(t, res.R2, 0.99)
	require.Len(t, res.StdErrors, 2)
	assert.Greater(t, res.StdErrors[1], 0.0)
}

func TestOLSRankDeficient(t *testing.T) {
	// Second and third columns identical.
	rows := make([][]float64, 30)
	y := make([]float64, 30)
	for i := range rows {
		x := float64(i)
		rows[i] = []float64{1, x, x}
		y[i] = 2 * x
	}

	res, err := OLS(Design(rows), y)
	require.NoError(t, err)

	assert.Nil(t, res.StdErrors)
	// The minimum-norm solution still fits the data.
	assert.InDelta(t, 0, res.RSS, 1e-6)
}

func TestOLSUnderdetermined(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {4, 5, 6}}
	_, err := OLS(Design(rows), []float64{1, 2})

	var underErr *timeseries.UnderdeterminedModelError
	require.ErrorAs(t, err, &underErr)
}

func TestOLSShapeMismatch(t *testing.T) {
	rows := [][]float64{{1}, {1}, {1}}
	_, err := OLS(Design(rows), []float64{1, 2})

	var shapeErr *timeseries.DataShapeError
	require.ErrorAs(t, err, &shapeErr)
}
