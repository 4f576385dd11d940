package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulateAR1(rng *rand.Rand, n int, phi float64) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + rng.NormFloat64()
	}
	return values
}

func TestACF(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	values := simulateAR1(rng, 2000, 0.7)

	acf := ACF(values, 5)
	require.Len(t, acf, 6)

	assert.Equal(t, 1.0, acf[0])
	assert.InDelta(t, 0.7, acf[1], 0.08)
	assert.InDelta(t, 0.49, acf[2], 0.1)
}

func TestACFConstantSeries(t *testing.T) {
	assert.Nil(t, ACF([]float64{3, 3, 3, 3}, 2))
}

func TestPACF(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	values := simulateAR1(rng, 2000, 0.7)

	pacf := PACF(values, 5)
	require.Len(t, pacf, 6)

	// AR(1): spike at lag 1, then cut off.
	assert.InDelta(t, 0.7, pacf[1], 0.08)
	assert.Less(t, math.Abs(pacf[2]), 0.1)
	assert.Less(t, math.Abs(pacf[3]), 0.1)
}

func TestYuleWalker(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	values := simulateAR1(rng, 2000, 0.6)

	phi := YuleWalker(values, 1)
	require.Len(t, phi, 1)
	assert.InDelta(t, 0.6, phi[0], 0.08)
}

func TestYuleWalkerOrderTwo(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	// AR(2) with coefficients 0.5 and 0.3.
	n := 3000
	values := make([]float64, n)
	for i := 2; i < n; i++ {
		values[i] = 0.5*values[i-1] + 0.3*values[i-2] + rng.NormFloat64()
	}

	phi := YuleWalker(values, 2)
	require.Len(t, phi, 2)
	assert.InDelta(t, 0.5, phi[0], 0.1)
	assert.InDelta(t, 0.3, phi[1], 0.1)
}

func TestConfidenceBound(t *testing.T) {
	assert.InDelta(t, 1.96/math.Sqrt(400), ConfidenceBound(400), 1e-12)
}
