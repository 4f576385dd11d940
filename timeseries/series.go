// Package timeseries provides price series data structures and operations.
package timeseries

import (
	"math"
	"sort"
	"time"
)

// Series represents an ordered price history for a single instrument.
// Timestamps, Prices, and (when present) Volumes are index-aligned.
type Series struct {
	Symbol     string
	Timestamps []time.Time
	Prices     []float64
	Volumes    []float64
}

// New creates a series from prices with synthetic daily timestamps.
func New(prices []float64) *Series {
	timestamps := make([]time.Time, len(prices))
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range timestamps {
		timestamps[i] = base.AddDate(0, 0, i)
	}
	return &Series{
		Timestamps: timestamps,
		Prices:     prices,
	}
}

// NewWithSymbol creates a series from prices tagged with a symbol identifier.
func NewWithSymbol(symbol string, prices []float64) *Series {
	s := New(prices)
	s.Symbol = symbol
	return s
}

// NewWithTimestamps creates a series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, prices []float64) (*Series, error) {
	if len(timestamps) != len(prices) {
		return nil, shapeErrorf("timestamps length %d != prices length %d", len(timestamps), len(prices))
	}
	return &Series{
		Timestamps: timestamps,
		Prices:     prices,
	}, nil
}

// Len returns the number of observations in the series.
func (s *Series) Len() int {
	return len(s.Prices)
}

// Validate checks the structural invariants of the series: aligned array
// lengths, strictly increasing timestamps, and finite values throughout.
// It returns a *DataShapeError describing the first violation found.
func (s *Series) Validate() error {
	if len(s.Prices) == 0 {
		return shapeErrorf("series %q is empty", s.Symbol)
	}
	if len(s.Timestamps) != 0 && len(s.Timestamps) != len(s.Prices) {
		return shapeErrorf("series %q: timestamps length %d != prices length %d",
			s.Symbol, len(s.Timestamps), len(s.Prices))
	}
	if len(s.Volumes) != 0 && len(s.Volumes) != len(s.Prices) {
		return shapeErrorf("series %q: volumes length %d != prices length %d",
			s.Symbol, len(s.Volumes), len(s.Prices))
	}
	for i := 1; i < len(s.Timestamps); i++ {
		if !s.Timestamps[i].After(s.Timestamps[i-1]) {
			return shapeErrorf("series %q: timestamps not strictly increasing at index %d", s.Symbol, i)
		}
	}
	for i, p := range s.Prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return shapeErrorf("series %q: non-finite price at index %d", s.Symbol, i)
		}
	}
	for i, v := range s.Volumes {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return shapeErrorf("series %q: non-finite volume at index %d", s.Symbol, i)
		}
	}
	return nil
}

// Returns computes simple returns: r[i] = p[i+1]/p[i] - 1.
// The result has length Len()-1. Zero prior prices yield a zero return.
func (s *Series) Returns() []float64 {
	if len(s.Prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, len(s.Prices)-1)
	for i := 1; i < len(s.Prices); i++ {
		if s.Prices[i-1] != 0 {
			returns[i-1] = s.Prices[i]/s.Prices[i-1] - 1
		}
	}
	return returns
}

// LogReturns computes log returns: r[i] = ln(p[i+1]/p[i]).
// Non-positive price ratios yield a zero return.
func (s *Series) LogReturns() []float64 {
	if len(s.Prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, len(s.Prices)-1)
	for i := 1; i < len(s.Prices); i++ {
		if s.Prices[i-1] > 0 && s.Prices[i] > 0 {
			returns[i-1] = math.Log(s.Prices[i] / s.Prices[i-1])
		}
	}
	return returns
}

// Mean calculates the arithmetic mean of the prices.
func (s *Series) Mean() float64 {
	if len(s.Prices) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Prices {
		sum += v
	}
	return sum / float64(len(s.Prices))
}

// Variance calculates the sample variance of the prices.
func (s *Series) Variance() float64 {
	if len(s.Prices) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Prices {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.Prices)-1)
}

// Std calculates the sample standard deviation of the prices.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum price in the series.
func (s *Series) Min() float64 {
	if len(s.Prices) == 0 {
		return math.NaN()
	}
	min := s.Prices[0]
	for _, v := range s.Prices[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum price in the series.
func (s *Series) Max() float64 {
	if len(s.Prices) == 0 {
		return math.NaN()
	}
	max := s.Prices[0]
	for _, v := range s.Prices[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Median returns the median price of the series.
func (s *Series) Median() float64 {
	return Median(s.Prices)
}

// Median returns the median of values, or NaN for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Diff calculates the first difference of the prices.
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the n-th order difference of the prices.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 || len(s.Prices) <= n {
		return &Series{Symbol: s.Symbol, Prices: []float64{}}
	}

	result := make([]float64, len(s.Prices)-n)
	for i := n; i < len(s.Prices); i++ {
		result[i-n] = s.Prices[i] - s.Prices[i-n]
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) > n {
		copy(timestamps, s.Timestamps[n:])
	}

	return &Series{
		Symbol:     s.Symbol,
		Timestamps: timestamps,
		Prices:     result,
	}
}

// Lag returns a lagged version of the series: prices shifted forward by k.
func (s *Series) Lag(k int) *Series {
	if k <= 0 || k >= len(s.Prices) {
		return &Series{Symbol: s.Symbol, Prices: []float64{}}
	}

	result := make([]float64, len(s.Prices)-k)
	copy(result, s.Prices[:len(s.Prices)-k])

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) > k {
		copy(timestamps, s.Timestamps[k:])
	}

	return &Series{
		Symbol:     s.Symbol,
		Timestamps: timestamps,
		Prices:     result,
	}
}

// Slice returns a sub-series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Prices) {
		end = len(s.Prices)
	}
	if start >= end {
		return &Series{Symbol: s.Symbol, Prices: []float64{}}
	}

	prices := make([]float64, end-start)
	copy(prices, s.Prices[start:end])

	timestamps := make([]time.Time, len(prices))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	out := &Series{
		Symbol:     s.Symbol,
		Timestamps: timestamps,
		Prices:     prices,
	}
	if len(s.Volumes) >= end {
		out.Volumes = make([]float64, end-start)
		copy(out.Volumes, s.Volumes[start:end])
	}
	return out
}

// Truncate returns the last n observations of the series.
func (s *Series) Truncate(n int) *Series {
	if n >= len(s.Prices) {
		return s.Copy()
	}
	return s.Slice(len(s.Prices)-n, len(s.Prices))
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	prices := make([]float64, len(s.Prices))
	copy(prices, s.Prices)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	out := &Series{
		Symbol:     s.Symbol,
		Timestamps: timestamps,
		Prices:     prices,
	}
	if len(s.Volumes) > 0 {
		out.Volumes = make([]float64, len(s.Volumes))
		copy(out.Volumes, s.Volumes)
	}
	return out
}

// Log applies a natural logarithm transformation to the prices.
func (s *Series) Log() *Series {
	result := make([]float64, len(s.Prices))
	for i, v := range s.Prices {
		if v > 0 {
			result[i] = math.Log(v)
		} else {
			result[i] = math.NaN()
		}
	}

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Symbol:     s.Symbol,
		Timestamps: timestamps,
		Prices:     result,
	}
}

// MovingAverage calculates a simple moving average with the given window.
// The result has length Len()-window+1.
func (s *Series) MovingAverage(window int) *Series {
	if window <= 0 || window > len(s.Prices) {
		return &Series{Symbol: s.Symbol, Prices: []float64{}}
	}

	result := make([]float64, len(s.Prices)-window+1)
	sum := 0.0

	for i := 0; i < window; i++ {
		sum += s.Prices[i]
	}
	result[0] = sum / float64(window)

	for i := window; i < len(s.Prices); i++ {
		sum = sum - s.Prices[i-window] + s.Prices[i]
		result[i-window+1] = sum / float64(window)
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) >= window {
		copy(timestamps, s.Timestamps[window-1:])
	}

	return &Series{
		Symbol:     s.Symbol,
		Timestamps: timestamps,
		Prices:     result,
	}
}

// Normalize standardizes the prices (z-score normalization).
func (s *Series) Normalize() *Series {
	mean := s.Mean()
	std := s.Std()

	if std == 0 {
		return s.Copy()
	}

	result := make([]float64, len(s.Prices))
	for i, v := range s.Prices {
		result[i] = (v - mean) / std
	}

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Symbol:     s.Symbol,
		Timestamps: timestamps,
		Prices:     result,
	}
}

// RollingStd computes the rolling sample standard deviation of values over
// the given window. Entry i covers values[max(0,i-window+1)..i], so the
// result is aligned to the input.
func RollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = sampleStd(values[start : i+1])
	}
	return out
}

// RollingMean computes the rolling mean of values over the given window,
// aligned to the input the same way as RollingStd.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
