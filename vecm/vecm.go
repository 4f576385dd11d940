// Package vecm implements cointegration analysis and vector error
// correction models over two or more price series.
package vecm

import (
	"fmt"
	"math"

	"github.com/sartorproj/goquant/stats"
	"github.com/sartorproj/goquant/timeseries"
)

// Config holds estimation configuration.
type Config struct {
	Lags           int      // lagged differences per equation (default: 1)
	EigenThreshold float64  // normalized-eigenvalue cutoff for rank (default: 0.1)
	Horizon        int      // impulse-response horizon (default: 10)
	Names          []string // optional series labels for pair keys
}

// DefaultConfig returns the default estimation configuration.
//
// The eigenvalue cutoff is a placeholder calibration, not a tabulated
// critical value.
func DefaultConfig() Config {
	return Config{
		Lags:           1,
		EigenThreshold: 0.1,
		Horizon:        10,
	}
}

// JohansenSummary reports the simplified rank-detection step.
type JohansenSummary struct {
	Eigenvalues    []float64 `json:"eigenvalues"`
	NCointegrating int       `json:"n_cointegrating"`
	TraceStat      float64   `json:"trace_stat"`
}

// GrangerResult holds a restricted-vs-unrestricted F-test for one ordered
// pair.
type GrangerResult struct {
	F      float64 `json:"f"`
	PValue float64 `json:"p_value"`
	Causes bool    `json:"causes"` // PValue < 0.05
}

// Fit is the immutable result of a single Fit call.
type Fit struct {
	NSeries              int                       `json:"n_series"`
	NObs                 int                       `json:"n_obs"`
	CointegratingVectors [][]float64               `json:"cointegrating_vectors"`
	AdjustmentCoeffs     [][]float64               `json:"adjustment_coefficients"` // one row per equation
	ShortRunDynamics     [][]float64               `json:"short_run_dynamics"`      // one row per equation
	Residuals            [][]float64               `json:"residuals"`               // one row per equation
	Johansen             JohansenSummary           `json:"johansen_summary"`
	Granger              map[string]*GrangerResult `json:"granger_causality"`
	ImpulseResponses     map[string][]float64      `json:"impulse_responses"`
	VarianceDecomp       map[string][]float64      `json:"variance_decomposition"`
	VARInDifferences     bool                      `json:"var_in_differences"`
	Degraded             bool                      `json:"degraded"`
	DegradedReason       string                    `json:"degraded_reason,omitempty"`
}

// Model is a fittable cointegration model.
type Model struct {
	Config Config
}

// New creates a model with the given configuration.
func New(cfg Config) *Model {
	if cfg.Lags <= 0 {
		cfg.Lags = 1
	}
	if cfg.EigenThreshold <= 0 {
		cfg.EigenThreshold = 0.1
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = 10
	}
	return &Model{Config: cfg}
}

// Fit runs the cointegration analysis over the level series.
//
// Unequal series lengths and too few observations are fatal and raise a
// *timeseries.DataShapeError before any numerical work. Fewer than two
// series, or a design too degenerate to regress, never errors: a fallback
// fit with zero cointegrating vectors tagged Degraded is returned instead.
func (m *Model) Fit(series [][]float64) (*Fit, error) {
	k := len(series)
	if k == 0 {
		return nil, timeseries.ShapeErrorf("vecm: no series given")
	}

	n := len(series[0])
	for i, s := range series {
		if len(s) != n {
			return nil, timeseries.ShapeErrorf(
				"vecm: series %d has %d observations, series 0 has %d", i, len(s), n)
		}
		for t, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, timeseries.ShapeErrorf("vecm: non-finite value in series %d at index %d", i, t)
			}
		}
	}

	minObs := 10 * (m.Config.Lags + 1)
	if minObs < 30 {
		minObs = 30
	}
	if n < minObs {
		return nil, timeseries.ShapeErrorf("vecm: need at least %d observations, got %d", minObs, n)
	}

	if k < 2 {
		return m.fallbackFit(k, n, "cointegration requires at least 2 series"), nil
	}

	johansen, vectors, err := m.johansen(series)
	if err != nil {
		return m.fallbackFit(k, n, err.Error()), nil
	}

	fit := &Fit{
		NSeries:              k,
		NObs:                 n,
		CointegratingVectors: vectors,
		Johansen:             johansen,
		VARInDifferences:     johansen.NCointegrating == 0,
	}

	if err := m.estimate(fit, series); err != nil {
		return m.fallbackFit(k, n, err.Error()), nil
	}

	m.granger(fit, series)
	m.impulseResponses(fit)
	return fit, nil
}

// estimate fits one OLS equation per variable: the first difference on the
// lagged error-correction terms and the lagged differences of every
// variable. With zero cointegrating vectors the ECT columns are omitted and
// the system is a VAR in first differences.
func (m *Model) estimate(fit *Fit, series [][]float64) error {
	k := len(series)
	n := len(series[0])
	lags := m.Config.Lags
	r := fit.Johansen.NCointegrating

	diffs := make([][]float64, k)
	for i, s := range series {
		diffs[i] = difference(s)
	}

	// Row t of the design explains the difference at original index t+1.
	// The first usable difference index is lags (it needs lags lagged
	// differences behind it).
	nRows := (n - 1) - lags
	if nRows <= 1+r+k*lags {
		return &timeseries.UnderdeterminedModelError{
			Reason: "too few observations for the lag structure",
		}
	}

	fit.AdjustmentCoeffs = make([][]float64, k)
	fit.ShortRunDynamics = make([][]float64, k)
	fit.Residuals = make([][]float64, k)

	for eq := 0; eq < k; eq++ {
		rows := make([][]float64, nRows)
		y := make([]float64, nRows)

		for t := 0; t < nRows; t++ {
			di := t + lags // index into diffs
			row := make([]float64, 0, 1+r+k*lags)
			row = append(row, 1)

			// ECT_{t-1}: levels at the original index just before the
			// explained difference, projected onto each vector.
			levelIdx := di // diffs[di] = series[di+1]-series[di]
			for v := 0; v < r; v++ {
				ect := 0.0
				for j := 0; j < k; j++ {
					ect += series[j][levelIdx] * fit.CointegratingVectors[v][j]
				}
				row = append(row, ect)
			}

			for lag := 1; lag <= lags; lag++ {
				for j := 0; j < k; j++ {
					row = append(row, diffs[j][di-lag])
				}
			}

			rows[t] = row
			y[t] = diffs[eq][di]
		}

		res, err := stats.OLS(stats.Design(rows), y)
		if err != nil {
			return err
		}

		fit.AdjustmentCoeffs[eq] = append([]float64(nil), res.Coeffs[1:1+r]...)
		fit.ShortRunDynamics[eq] = append([]float64(nil), res.Coeffs[1+r:]...)
		fit.Residuals[eq] = res.Residuals
	}
	return nil
}

// fallbackFit builds a degraded fit with no cointegrating structure.
func (m *Model) fallbackFit(k, n int, reason string) *Fit {
	return &Fit{
		NSeries:              k,
		NObs:                 n,
		CointegratingVectors: [][]float64{},
		AdjustmentCoeffs:     [][]float64{},
		ShortRunDynamics:     [][]float64{},
		Residuals:            [][]float64{},
		Johansen:             JohansenSummary{Eigenvalues: []float64{}},
		Granger:              map[string]*GrangerResult{},
		ImpulseResponses:     map[string][]float64{},
		VarianceDecomp:       map[string][]float64{},
		VARInDifferences:     true,
		Degraded:             true,
		DegradedReason:       reason,
	}
}

// seriesName returns the configured label for index i, or a positional one.
func (m *Model) seriesName(i int) string {
	if i < len(m.Config.Names) && m.Config.Names[i] != "" {
		return m.Config.Names[i]
	}
	return fmt.Sprintf("y%d", i)
}

// pairKey labels an ordered cause->effect pair.
func (m *Model) pairKey(cause, effect int) string {
	return m.seriesName(cause) + "->" + m.seriesName(effect)
}

func difference(values []float64) []float64 {
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}
