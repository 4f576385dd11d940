package timeseries

import "fmt"

// DataShapeError reports malformed or insufficient input: mismatched array
// lengths, non-finite values, unordered timestamps, or too few observations.
// It is fatal: no fitting should start after one is returned.
type DataShapeError struct {
	Reason string
}

func (e *DataShapeError) Error() string {
	return "data shape: " + e.Reason
}

func shapeErrorf(format string, args ...any) *DataShapeError {
	return &DataShapeError{Reason: fmt.Sprintf(format, args...)}
}

// ShapeErrorf builds a *DataShapeError with a formatted reason.
func ShapeErrorf(format string, args ...any) *DataShapeError {
	return shapeErrorf(format, args...)
}

// NumericalDivergenceError reports an optimizer or filter failure inside a
// single estimation stage. It is non-fatal: the stage catches it and
// substitutes a degraded fallback result.
type NumericalDivergenceError struct {
	Stage  string
	Reason string
}

func (e *NumericalDivergenceError) Error() string {
	return e.Stage + ": numerical divergence: " + e.Reason
}

// UnderdeterminedModelError reports a model requested with too little
// structure to identify, such as a cointegration analysis over a single
// series. Non-fatal: the stage substitutes a degraded fallback result.
type UnderdeterminedModelError struct {
	Reason string
}

func (e *UnderdeterminedModelError) Error() string {
	return "underdetermined model: " + e.Reason
}
