package kalman

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goquant/timeseries"
)

func noisyRamp(rng *rand.Rand, n int, start, slope, noise float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = start + slope*float64(i) + noise*rng.NormFloat64()
	}
	return prices
}

func TestLocalLevelLengths(t *testing.T) {
	rng := rand.New(rand.NewSource(200))
	prices := noisyRamp(rng, 100, 100, 0, 1)

	fit, err := New(KindLocalLevel, DefaultConfig()).Fit(prices)
	require.NoError(t, err)

	assert.Equal(t, 1, fit.StateDim)
	assert.Len(t, fit.FilteredStates, len(prices))
	assert.Len(t, fit.SmoothedStates, len(prices))
	assert.Len(t, fit.Innovations, len(prices))
}

func TestLocalLevelConstantSeries(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 42
	}

	fit, err := New(KindLocalLevel, DefaultConfig()).Fit(prices)
	require.NoError(t, err)
	require.False(t, fit.Degraded)

	// With zero innovations the filtered level stays at the constant.
	for i := 5; i < len(prices); i++ {
		assert.InDelta(t, 42, fit.FilteredStates[i][0], 1e-6)
	}
}

func TestLocalTrendSlopeOnRamp(t *testing.T) {
	// Deterministic ramp: slope should converge to the per-step increment.
	n := 200
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 2*float64(i)
	}

	fit, err := New(KindLocalTrend, DefaultConfig()).Fit(prices)
	require.NoError(t, err)
	require.False(t, fit.Degraded)
	require.Equal(t, 2, fit.StateDim)

	last := fit.FilteredStates[n-1]
	t.Logf("final level=%.3f slope=%.3f", last[0], last[1])
	assert.InDelta(t, 2.0, last[1], 0.1)
}

func TestSmoothedVarianceNotLargerThanFiltered(t *testing.T) {
	rng := rand.New(rand.NewSource(201))
	prices := make([]float64, 150)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		prices[i] = prices[i-1] + rng.NormFloat64()
	}

	for _, kind := range []Kind{KindLocalLevel, KindLocalTrend} {
		fit, err := New(kind, DefaultConfig()).Fit(prices)
		require.NoError(t, err)
		require.False(t, fit.Degraded)

		for step := range fit.FilteredCovariances {
			for d := 0; d < fit.StateDim; d++ {
				filtered := fit.FilteredCovariances[step][d][d]
				smoothed := fit.SmoothedCovariances[step][d][d]
				assert.LessOrEqual(t, smoothed, filtered+1e-9,
					"kind %s step %d dim %d", kind, step, d)
			}
		}
	}
}

func TestRegimeSwitching(t *testing.T) {
	rng := rand.New(rand.NewSource(202))
	// Calm first half, turbulent second half.
	n := 300
	prices := make([]float64, n)
	prices[0] = 100
	for i := 1; i < n; i++ {
		noise := 0.2
		if i >= n/2 {
			noise = 3.0
		}
		prices[i] = prices[i-1] + noise*rng.NormFloat64()
	}

	fit, err := New(KindRegimeSwitching, DefaultConfig()).Fit(prices)
	require.NoError(t, err)

	assert.Equal(t, KindRegimeSwitching, fit.Kind)
	require.Len(t, fit.Regimes, n)
	require.Len(t, fit.FilteredStates, n)
	for i, state := range fit.FilteredStates {
		require.NotEmpty(t, state, "missing state at index %d", i)
	}

	// The turbulent half should be predominantly tagged high volatility.
	high := 0
	for _, r := range fit.Regimes[n/2:] {
		if r == 1 {
			high++
		}
	}
	assert.Greater(t, high, n/4)
}

func TestFitTooShort(t *testing.T) {
	_, err := New(KindLocalLevel, DefaultConfig()).Fit([]float64{1, 2, 3})

	var shapeErr *timeseries.DataShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestFitNonFinite(t *testing.T) {
	prices := make([]float64, 50)
	prices[10] = math.Inf(1)

	_, err := New(KindLocalLevel, DefaultConfig()).Fit(prices)

	var shapeErr *timeseries.DataShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestSlopesFallbackToDifferences(t *testing.T) {
	rng := rand.New(rand.NewSource(203))
	prices := noisyRamp(rng, 80, 50, 1, 0.1)

	fit, err := New(KindLocalLevel, DefaultConfig()).Fit(prices)
	require.NoError(t, err)

	slopes := fit.Slopes()
	require.Len(t, slopes, len(prices))
	// 1-D model: slope is the first difference of the filtered level.
	assert.InDelta(t, fit.FilteredStates[10][0]-fit.FilteredStates[9][0], slopes[10], 1e-12)
}
