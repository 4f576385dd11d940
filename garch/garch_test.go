package garch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goquant/timeseries"
)

// simulateGARCH generates returns from a GARCH(1,1) process.
func simulateGARCH(rng *rand.Rand, n int, omega, alpha, beta float64) []float64 {
	returns := make([]float64, n)
	variance := omega / (1 - alpha - beta)
	for i := 0; i < n; i++ {
		if i > 0 {
			variance = omega + alpha*returns[i-1]*returns[i-1] + beta*variance
		}
		returns[i] = math.Sqrt(variance) * rng.NormFloat64()
	}
	return returns
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxIter = 5000
	return cfg
}

func TestGARCHRecoversKnownParameters(t *testing.T) {
	rng := rand.New(rand.NewSource(100))
	returns := simulateGARCH(rng, 2000, 1e-5, 0.05, 0.9)

	fit, err := New(KindGARCH, testConfig()).Fit(returns)
	require.NoError(t, err)
	require.False(t, fit.Degraded, "fit degraded: %s", fit.DegradedReason)

	t.Logf("estimated alpha=%.4f beta=%.4f", fit.Params["alpha"], fit.Params["beta"])
	assert.InDelta(t, 0.05, fit.Params["alpha"], 0.1)
	assert.InDelta(t, 0.9, fit.Params["beta"], 0.1)
	assert.True(t, fit.Stationary)
}

func TestConditionalVolatilityPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(101))
	returns := simulateGARCH(rng, 800, 1e-5, 0.08, 0.85)

	for _, kind := range Kinds() {
		fit, err := New(kind, testConfig()).Fit(returns)
		require.NoError(t, err, "kind %s", kind)
		require.Len(t, fit.CondVolatility, len(returns))
		for i, v := range fit.CondVolatility {
			require.Greater(t, v, 0.0, "kind %s index %d", kind, i)
		}
	}
}

func TestInformationCriteriaFormulas(t *testing.T) {
	rng := rand.New(rand.NewSource(102))
	returns := simulateGARCH(rng, 500, 1e-5, 0.05, 0.9)

	fit, err := New(KindGARCH, testConfig()).Fit(returns)
	require.NoError(t, err)

	k := float64(fit.NumParams)
	n := float64(fit.NObs)
	assert.Equal(t, 2*k-2*fit.LogLik, fit.AIC)
	assert.Equal(t, math.Log(n)*k-2*fit.LogLik, fit.BIC)
}

func TestFitTooShort(t *testing.T) {
	_, err := New(KindGARCH, DefaultConfig()).Fit(make([]float64, 10))

	var shapeErr *timeseries.DataShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestFitNonFinite(t *testing.T) {
	returns := make([]float64, 100)
	returns[50] = math.NaN()

	_, err := New(KindGARCH, DefaultConfig()).Fit(returns)

	var shapeErr *timeseries.DataShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestConstantSeriesFallsBack(t *testing.T) {
	fit, err := New(KindGARCH, DefaultConfig()).Fit(make([]float64, 100))
	require.NoError(t, err)

	assert.True(t, fit.Degraded)
	assert.NotEmpty(t, fit.DegradedReason)
	assert.Equal(t, 1, fit.NumParams)
	for _, v := range fit.CondVolatility {
		assert.Greater(t, v, 0.0)
	}
}

func TestStandardizedResiduals(t *testing.T) {
	rng := rand.New(rand.NewSource(103))
	returns := simulateGARCH(rng, 1000, 1e-5, 0.05, 0.9)

	fit, err := New(KindGARCH, testConfig()).Fit(returns)
	require.NoError(t, err)
	require.Len(t, fit.StdResiduals, len(returns))

	// Standardized residuals of a well-specified fit have roughly unit
	// variance.
	sumSq := 0.0
	for _, z := range fit.StdResiduals {
		sumSq += z * z
	}
	assert.InDelta(t, 1.0, sumSq/float64(len(returns)), 0.2)
}

func TestDiagnosticsAttached(t *testing.T) {
	rng := rand.New(rand.NewSource(104))
	returns := simulateGARCH(rng, 600, 1e-5, 0.05, 0.9)

	fit, err := New(KindGARCH, testConfig()).Fit(returns)
	require.NoError(t, err)
	require.NotNil(t, fit.Diagnostics)
	assert.NotNil(t, fit.Diagnostics.LjungBox)
	assert.NotNil(t, fit.Diagnostics.JarqueBera)
	assert.NotNil(t, fit.Diagnostics.ARCHLM)
}

func TestForecastConvergesToLongRun(t *testing.T) {
	rng := rand.New(rand.NewSource(105))
	returns := simulateGARCH(rng, 2000, 1e-5, 0.05, 0.9)

	fit, err := New(KindGARCH, testConfig()).Fit(returns)
	require.NoError(t, err)
	require.True(t, fit.Stationary)

	fc := fit.Forecast(100)
	require.Len(t, fc.Volatility, 100)

	longRun := math.Sqrt(fit.LongRunVariance())
	assert.InEpsilon(t, longRun, fc.Volatility[99], 0.05)

	for h := range fc.Volatility {
		assert.Less(t, fc.Lower[h], fc.Volatility[h])
		assert.Greater(t, fc.Upper[h], fc.Volatility[h])
	}
}

func TestForecastDegradedIsConstant(t *testing.T) {
	fit, err := New(KindGARCH, DefaultConfig()).Fit(make([]float64, 100))
	require.NoError(t, err)
	require.True(t, fit.Degraded)

	fc := fit.Forecast(5)
	for _, v := range fc.Volatility {
		assert.Equal(t, fc.Volatility[0], v)
	}
}

func TestModelSelectionPrefersSymmetricOnSymmetricData(t *testing.T) {
	rng := rand.New(rand.NewSource(106))
	returns := simulateGARCH(rng, 1500, 1e-5, 0.05, 0.9)

	var bestKind Kind
	bestAIC := math.Inf(1)
	for _, kind := range Kinds() {
		fit, err := New(kind, testConfig()).Fit(returns)
		require.NoError(t, err)
		t.Logf("%s: aic=%.2f degraded=%v", kind, fit.AIC, fit.Degraded)
		if fit.AIC < bestAIC {
			bestAIC = fit.AIC
			bestKind = kind
		}
	}
	assert.NotEmpty(t, bestKind)
	assert.False(t, math.IsInf(bestAIC, 0))
}
