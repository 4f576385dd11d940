package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomWalk(rng *rand.Rand, n int) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = values[i-1] + rng.NormFloat64()
	}
	return values
}

func whiteNoise(rng *rand.Rand, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = rng.NormFloat64()
	}
	return values
}

func TestADFWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	res := ADF(whiteNoise(rng, 500), 0)
	require.NotNil(t, res)

	assert.Less(t, res.Statistic, -3.43)
	assert.True(t, res.IsStationary)
}

func TestADFRandomWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	res := ADF(randomWalk(rng, 500), 0)
	require.NotNil(t, res)

	assert.False(t, res.IsStationary)
	assert.GreaterOrEqual(t, res.PValue, 0.05)
}

func TestADFTooShort(t *testing.T) {
	assert.Nil(t, ADF([]float64{1, 2, 3}, 0))
}

func TestKPSSWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	res := KPSS(whiteNoise(rng, 500), "c", 0)
	require.NotNil(t, res)

	assert.True(t, res.IsStationary)
}

func TestKPSSRandomWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	res := KPSS(randomWalk(rng, 500), "c", 0)
	require.NotNil(t, res)

	assert.False(t, res.IsStationary)
	assert.Greater(t, res.Statistic, res.CriticalVals["5%"])
}

func TestKPSSTrendStationary(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	n := 500
	values := make([]float64, n)
	for i := range values {
		values[i] = 0.5*float64(i) + rng.NormFloat64()
	}

	res := KPSS(values, "ct", 0)
	require.NotNil(t, res)
	assert.True(t, res.IsStationary)
}
