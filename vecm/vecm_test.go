package vecm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goquant/timeseries"
)

func randomWalk(rng *rand.Rand, n int, start float64) []float64 {
	out := make([]float64, n)
	out[0] = start
	for i := 1; i < n; i++ {
		out[i] = out[i-1] + rng.NormFloat64()
	}
	return out
}

// cointegratedPair builds a random walk and a noisy multiple of it, so the
// spread between them is stationary.
func cointegratedPair(rng *rand.Rand, n int) ([]float64, []float64) {
	base := randomWalk(rng, n, 100)
	other := make([]float64, n)
	for i, v := range base {
		other[i] = 2*v + rng.NormFloat64()
	}
	return base, other
}

func TestFitMismatchedLengths(t *testing.T) {
	rng := rand.New(rand.NewSource(300))
	a := randomWalk(rng, 100, 100)
	b := randomWalk(rng, 90, 100)

	_, err := New(DefaultConfig()).Fit([][]float64{a, b})

	var shapeErr *timeseries.DataShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestFitTooShort(t *testing.T) {
	_, err := New(DefaultConfig()).Fit([][]float64{make([]float64, 10), make([]float64, 10)})

	var shapeErr *timeseries.DataShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestFitSingleSeriesDegrades(t *testing.T) {
	rng := rand.New(rand.NewSource(301))
	fit, err := New(DefaultConfig()).Fit([][]float64{randomWalk(rng, 200, 100)})
	require.NoError(t, err)

	assert.True(t, fit.Degraded)
	assert.Equal(t, 0, fit.Johansen.NCointegrating)
	assert.Empty(t, fit.CointegratingVectors)
	assert.True(t, fit.VARInDifferences)
}

func TestCointegratedPairDetected(t *testing.T) {
	rng := rand.New(rand.NewSource(302))
	a, b := cointegratedPair(rng, 500)

	fit, err := New(DefaultConfig()).Fit([][]float64{a, b})
	require.NoError(t, err)
	require.False(t, fit.Degraded, "degraded: %s", fit.DegradedReason)

	t.Logf("eigenvalues=%v", fit.Johansen.Eigenvalues)
	assert.GreaterOrEqual(t, fit.Johansen.NCointegrating, 1)
	assert.NotEmpty(t, fit.CointegratingVectors)
	assert.False(t, fit.VARInDifferences)

	require.Len(t, fit.AdjustmentCoeffs, 2)
	for _, row := range fit.AdjustmentCoeffs {
		assert.Len(t, row, fit.Johansen.NCointegrating)
	}
	require.Len(t, fit.Residuals, 2)
}

func TestIndependentRandomWalksMostlyRejected(t *testing.T) {
	// Two independent random walks share no equilibrium, so the detected
	// rank should be zero in the vast majority of trials.
	trials := 20
	zeros := 0
	for trial := 0; trial < trials; trial++ {
		rng := rand.New(rand.NewSource(int64(400 + trial)))
		a := randomWalk(rng, 500, 100)
		b := randomWalk(rng, 500, 50)

		fit, err := New(DefaultConfig()).Fit([][]float64{a, b})
		require.NoError(t, err)
		if fit.Johansen.NCointegrating == 0 {
			zeros++
		}
	}
	t.Logf("%d/%d trials reported rank zero", zeros, trials)
	assert.GreaterOrEqual(t, zeros, trials*9/10)
}

func TestGrangerCausality(t *testing.T) {
	rng := rand.New(rand.NewSource(303))
	n := 500
	// x leads y: y's change tracks x's previous change.
	x := randomWalk(rng, n, 100)
	y := make([]float64, n)
	y[0] = 50
	for i := 1; i < n; i++ {
		lead := 0.0
		if i >= 2 {
			lead = 0.8 * (x[i-1] - x[i-2])
		}
		y[i] = y[i-1] + lead + 0.3*rng.NormFloat64()
	}

	fit, err := New(DefaultConfig()).Fit([][]float64{x, y})
	require.NoError(t, err)
	require.Contains(t, fit.Granger, "y0->y1")
	require.Contains(t, fit.Granger, "y1->y0")

	forward := fit.Granger["y0->y1"]
	t.Logf("x->y F=%.2f p=%.4f; y->x F=%.2f p=%.4f",
		forward.F, forward.PValue, fit.Granger["y1->y0"].F, fit.Granger["y1->y0"].PValue)
	assert.True(t, forward.Causes)
	assert.Less(t, forward.PValue, 0.05)
}

func TestImpulseResponsesAndVarianceDecomposition(t *testing.T) {
	rng := rand.New(rand.NewSource(304))
	a, b := cointegratedPair(rng, 400)

	cfg := DefaultConfig()
	cfg.Names = []string{"spx", "ndx"}
	fit, err := New(cfg).Fit([][]float64{a, b})
	require.NoError(t, err)

	irf, ok := fit.ImpulseResponses["spx->spx"]
	require.True(t, ok)
	require.Len(t, irf, cfg.Horizon)
	assert.Equal(t, 1.0, irf[0]) // own shock starts at unity
	for h := 1; h < len(irf); h++ {
		assert.Less(t, irf[h], irf[h-1]) // geometric decay
	}

	// Shares across shocks sum to one per response and horizon.
	for _, response := range []string{"spx", "ndx"} {
		for h := 0; h < cfg.Horizon; h++ {
			total := 0.0
			for _, shock := range []string{"spx", "ndx"} {
				total += fit.VarianceDecomp[shock+"->"+response][h]
			}
			assert.InDelta(t, 1.0, total, 1e-9, "response %s horizon %d", response, h)
		}
	}
}

func TestPairKeyNaming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Names = []string{"a", "b"}
	m := New(cfg)

	assert.Equal(t, "a->b", m.pairKey(0, 1))
	// Without configured names, keys fall back to positional labels.
	assert.Equal(t, "y2->y0", New(DefaultConfig()).pairKey(2, 0))
}
