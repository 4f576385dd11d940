// Package timeseries provides price series data structures and utilities.
//
// This package includes the Series type for representing instrument price
// histories, return derivation, input validation, and the shared error
// taxonomy used across the analytics engine.
//
// # Creating a Series
//
// Create a price series from a slice:
//
//	prices := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.NewWithSymbol("SPX", prices)
//
// # Returns
//
// Derive returns from prices:
//
//	simple := series.Returns()    // p[i+1]/p[i] - 1
//	logged := series.LogReturns() // ln(p[i+1]/p[i])
//
// # Validation
//
// Check the structural invariants before fitting:
//
//	if err := series.Validate(); err != nil {
//	    var shape *timeseries.DataShapeError
//	    if errors.As(err, &shape) {
//	        // malformed input: reject, do not fit
//	    }
//	}
//
// # Transformations
//
// Transform the series:
//
//	diff := series.Diff()           // First difference
//	logged := series.Log()          // Natural log
//	normalized := series.Normalize() // Z-score normalization
//	ma := series.MovingAverage(7)   // Moving average
//
// # Error taxonomy
//
// Three error kinds are shared across the engine:
//
//   - DataShapeError: malformed input, fatal, no fitting starts
//   - NumericalDivergenceError: optimizer/filter failure inside one stage,
//     replaced by a degraded fallback at the stage boundary
//   - UnderdeterminedModelError: model requested with too little structure,
//     also replaced by a degraded fallback
package timeseries
