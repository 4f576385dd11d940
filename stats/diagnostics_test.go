package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLjungBoxWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	res := LjungBox(whiteNoise(rng, 1000), 10, 0)
	require.NotNil(t, res)

	assert.Greater(t, res.PValue, 0.01)
	assert.Equal(t, 10, res.DOF)
}

func TestLjungBoxAutocorrelated(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	values := simulateAR1(rng, 1000, 0.7)

	res := LjungBox(values, 10, 0)
	require.NotNil(t, res)

	assert.Less(t, res.PValue, 0.01)
}

func TestJarqueBeraNormal(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	res := JarqueBera(whiteNoise(rng, 1000))
	require.NotNil(t, res)

	assert.Greater(t, res.PValue, 0.01)
	assert.Less(t, math.Abs(res.Skewness), 0.3)
}

func TestJarqueBeraSkewed(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	values := make([]float64, 1000)
	for i := range values {
		values[i] = rng.ExpFloat64()
	}

	res := JarqueBera(values)
	require.NotNil(t, res)

	assert.Less(t, res.PValue, 0.01)
	assert.Greater(t, res.Skewness, 1.0)
}

func TestARCHLMHeteroskedastic(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	// Strong ARCH(1) process.
	n := 1000
	values := make([]float64, n)
	variance := 1.0
	for i := 1; i < n; i++ {
		variance = 0.2 + 0.7*values[i-1]*values[i-1]
		values[i] = math.Sqrt(variance) * rng.NormFloat64()
	}

	res := ARCHLM(values, 5)
	require.NotNil(t, res)
	assert.Less(t, res.PValue, 0.01)
}

func TestARCHLMHomoskedastic(t *testing.T) {
	rng := rand.New(rand.NewSource(25))
	res := ARCHLM(whiteNoise(rng, 1000), 5)
	require.NotNil(t, res)

	assert.Greater(t, res.PValue, 0.01)
}

func TestDurbinWatson(t *testing.T) {
	rng := rand.New(rand.NewSource(26))
	res := DurbinWatson(whiteNoise(rng, 1000))
	require.NotNil(t, res)

	assert.InDelta(t, 2.0, res.Statistic, 0.3)
}
