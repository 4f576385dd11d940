package timeseries

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturns(t *testing.T) {
	s := New([]float64{100, 110, 99})
	r := s.Returns()

	require.Len(t, r, 2)
	assert.InDelta(t, 0.10, r[0], 1e-12)
	assert.InDelta(t, -0.10, r[1], 1e-12)
}

func TestReturnsZeroPriorPrice(t *testing.T) {
	s := New([]float64{0, 100, 110})
	r := s.Returns()

	require.Len(t, r, 2)
	assert.Equal(t, 0.0, r[0])
	assert.InDelta(t, 0.10, r[1], 1e-12)
}

func TestLogReturns(t *testing.T) {
	s := New([]float64{100, 110})
	r := s.LogReturns()

	require.Len(t, r, 1)
	assert.InDelta(t, math.Log(1.1), r[0], 1e-12)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := NewWithSymbol("SPX", []float64{100, 101, 102})
		assert.NoError(t, s.Validate())
	})

	t.Run("empty", func(t *testing.T) {
		s := New(nil)
		var shapeErr *DataShapeError
		require.ErrorAs(t, s.Validate(), &shapeErr)
	})

	t.Run("non-finite price", func(t *testing.T) {
		s := New([]float64{100, math.NaN(), 102})
		var shapeErr *DataShapeError
		require.ErrorAs(t, s.Validate(), &shapeErr)
	})

	t.Run("unordered timestamps", func(t *testing.T) {
		base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		s, err := NewWithTimestamps(
			[]time.Time{base, base.AddDate(0, 0, 1), base},
			[]float64{1, 2, 3})
		require.NoError(t, err)
		var shapeErr *DataShapeError
		require.ErrorAs(t, s.Validate(), &shapeErr)
	})

	t.Run("volume length mismatch", func(t *testing.T) {
		s := New([]float64{1, 2, 3})
		s.Volumes = []float64{10}
		var shapeErr *DataShapeError
		require.ErrorAs(t, s.Validate(), &shapeErr)
	})
}

func TestNewWithTimestampsLengthMismatch(t *testing.T) {
	_, err := NewWithTimestamps([]time.Time{time.Now()}, []float64{1, 2})
	var shapeErr *DataShapeError
	require.True(t, errors.As(err, &shapeErr))
}

func TestDiff(t *testing.T) {
	s := New([]float64{1, 4, 9, 16})
	d := s.Diff()

	assert.Equal(t, []float64{3, 5, 7}, d.Prices)
}

func TestLag(t *testing.T) {
	s := New([]float64{1, 2, 3, 4})
	l := s.Lag(2)

	assert.Equal(t, []float64{1, 2}, l.Prices)
}

func TestMovingAverage(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	ma := s.MovingAverage(3)

	require.Len(t, ma.Prices, 3)
	assert.InDelta(t, 2, ma.Prices[0], 1e-12)
	assert.InDelta(t, 3, ma.Prices[1], 1e-12)
	assert.InDelta(t, 4, ma.Prices[2], 1e-12)
}

func TestTruncate(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	assert.Equal(t, []float64{3, 4, 5}, s.Truncate(3).Prices)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, s.Truncate(10).Prices)
}

func TestNormalize(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	z := s.Normalize()

	mean := 0.0
	for _, v := range z.Prices {
		mean += v
	}
	assert.InDelta(t, 0, mean/float64(len(z.Prices)), 1e-12)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3, 2, 4}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
	assert.True(t, math.IsNaN(Median(nil)))

	s := New([]float64{9, 7, 8})
	assert.Equal(t, 8.0, s.Median())
}

func TestRollingStd(t *testing.T) {
	values := []float64{1, 1, 1, 10, 1, 1, 1}
	out := RollingStd(values, 3)

	require.Len(t, out, len(values))
	assert.Equal(t, 0.0, out[0]) // single observation
	assert.Equal(t, 0.0, out[2]) // constant window
	assert.Greater(t, out[3], 0.0)
	assert.Equal(t, 0.0, out[6]) // spike left the window
}

func TestRollingMean(t *testing.T) {
	values := []float64{2, 4, 6, 8}
	out := RollingMean(values, 2)

	require.Len(t, out, 4)
	assert.InDelta(t, 2, out[0], 1e-12)
	assert.InDelta(t, 3, out[1], 1e-12)
	assert.InDelta(t, 5, out[2], 1e-12)
	assert.InDelta(t, 7, out[3], 1e-12)
}
