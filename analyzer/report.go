package analyzer

import (
	"time"

	"github.com/sartorproj/goquant/garch"
	"github.com/sartorproj/goquant/kalman"
	"github.com/sartorproj/goquant/vecm"
)

// Report is the composite result of one Analyze call. Sections are
// independently nullable: a failed stage leaves its section nil or tagged
// Degraded while the rest of the report stays populated. Field names and
// nesting are stable across calls so downstream serializers can rely on
// shape.
type Report struct {
	Symbol      string    `json:"symbol"`
	GeneratedAt time.Time `json:"generated_at"`
	NObs        int       `json:"n_obs"`

	GARCH         *garch.Fit         `json:"garch,omitempty"`
	GARCHForecast *garch.Forecast    `json:"garch_forecast,omitempty"`
	CandidateAICs map[string]float64 `json:"candidate_aics,omitempty"`

	Kalman        *kalman.Fit `json:"kalman,omitempty"`
	Cointegration *vecm.Fit   `json:"cointegration,omitempty"`

	Regimes     *RegimeAnalysis    `json:"regime_analysis,omitempty"`
	Risk        *RiskMetrics       `json:"risk_metrics,omitempty"`
	Signals     []int              `json:"trading_signals,omitempty"`
	Ensemble    *EnsembleForecast  `json:"ensemble_forecast,omitempty"`
	Diagnostics *DiagnosticsReport `json:"diagnostics,omitempty"`

	Insights        []string `json:"insights,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// RegimeAnalysis classifies each period by volatility regime and counts
// trend moves from the Kalman slope path.
type RegimeAnalysis struct {
	VolRegimes       []int   `json:"vol_regimes"` // 1 high, 0 low, per period
	CurrentVolRegime string  `json:"current_vol_regime"`
	VolPersistence   float64 `json:"vol_persistence"` // 1 - sign changes / n

	TrendUp     int    `json:"trend_up"`
	TrendDown   int    `json:"trend_down"`
	TrendFlat   int    `json:"trend_flat"`
	CurrentTrend string `json:"current_trend"`

	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// RiskMetrics holds distribution and drawdown measures of the return
// series. VaR values are empirical percentiles and carry the sign of the
// underlying return (losses are negative).
type RiskMetrics struct {
	AnnualizedVol     float64 `json:"annualized_volatility"`
	VaR95             float64 `json:"var_95"`
	VaR99             float64 `json:"var_99"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	Sharpe            float64 `json:"sharpe"`
	Sortino           float64 `json:"sortino"`
	Skewness          float64 `json:"skewness"`
	Kurtosis          float64 `json:"kurtosis"` // excess kurtosis

	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// EnsembleForecast blends the enabled learners' return forecasts, weighted
// by out-of-sample R-squared on a held-out split. Weights sum to one
// whenever at least one learner succeeds; a degraded learner's weight is
// zero.
type EnsembleForecast struct {
	Forecast []float64 `json:"forecast"`
	Lower    []float64 `json:"lower"`
	Upper    []float64 `json:"upper"`

	Weights     map[string]float64 `json:"weights"`
	HoldoutR2   map[string]float64 `json:"holdout_r2"`
	Uncertainty float64            `json:"model_uncertainty"` // learner disagreement at step one

	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// DiagnosticsReport aggregates stationarity, normality, and residual tests
// into a 0-1 quality score.
type DiagnosticsReport struct {
	ADFStat    float64 `json:"adf_stat"`
	ADFPValue  float64 `json:"adf_p_value"`
	KPSSStat   float64 `json:"kpss_stat"`
	KPSSPValue float64 `json:"kpss_p_value"`

	JarqueBeraStat   float64 `json:"jarque_bera_stat"`
	JarqueBeraPValue float64 `json:"jarque_bera_p_value"`
	LjungBoxStat     float64 `json:"ljung_box_stat"`
	LjungBoxPValue   float64 `json:"ljung_box_p_value"`
	ARCHLMStat       float64 `json:"arch_lm_stat"`
	ARCHLMPValue     float64 `json:"arch_lm_p_value"`

	QualityScore float64 `json:"quality_score"` // mean of normalized sub-scores, 0-1

	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// AnyDegraded reports whether any populated section carries a degraded
// flag, including the leaf fits.
func (r *Report) AnyDegraded() bool {
	if r.GARCH != nil && r.GARCH.Degraded {
		return true
	}
	if r.Kalman != nil && r.Kalman.Degraded {
		return true
	}
	if r.Cointegration != nil && r.Cointegration.Degraded {
		return true
	}
	if r.Regimes != nil && r.Regimes.Degraded {
		return true
	}
	if r.Risk != nil && r.Risk.Degraded {
		return true
	}
	if r.Ensemble != nil && r.Ensemble.Degraded {
		return true
	}
	if r.Diagnostics != nil && r.Diagnostics.Degraded {
		return true
	}
	return false
}
