// Package analyzer orchestrates the volatility, state-space, and
// cointegration estimators into a single composite report.
package analyzer

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sartorproj/goquant/garch"
	"github.com/sartorproj/goquant/kalman"
	"github.com/sartorproj/goquant/timeseries"
	"github.com/sartorproj/goquant/vecm"
)

// LearnerKind identifies an ensemble forecasting learner. The set of
// learners is a capability list resolved once at construction, not probed
// at runtime.
type LearnerKind string

const (
	LearnerGARCH      LearnerKind = "garch"
	LearnerKalman     LearnerKind = "kalman"
	LearnerAR         LearnerKind = "ar"
	LearnerRegression LearnerKind = "regression"
)

// Config holds orchestration configuration. Estimator-level configuration
// nests the leaf packages' own Config types.
type Config struct {
	GARCH  garch.Config
	Kalman kalman.Config
	VECM   vecm.Config

	ForecastHorizon int           // ensemble and volatility forecast steps (default: 10)
	TradingDays     int           // annualization base (default: 252)
	HoldoutFraction float64       // out-of-sample split for learner weighting (default: 0.2)
	AROrder         int           // autoregressive learner order (default: 2)
	Learners        []LearnerKind // enabled learners (default: all)
}

// DefaultConfig returns the default orchestration configuration.
func DefaultConfig() Config {
	return Config{
		GARCH:           garch.DefaultConfig(),
		Kalman:          kalman.DefaultConfig(),
		VECM:            vecm.DefaultConfig(),
		ForecastHorizon: 10,
		TradingDays:     252,
		HoldoutFraction: 0.2,
		AROrder:         2,
		Learners:        []LearnerKind{LearnerGARCH, LearnerKalman, LearnerAR, LearnerRegression},
	}
}

// Analyzer runs the full analysis pipeline. Safe for concurrent use: every
// Analyze call operates on freshly allocated state.
type Analyzer struct {
	cfg Config
	log zerolog.Logger
}

// New creates an analyzer with the given configuration and logger.
func New(cfg Config, log zerolog.Logger) *Analyzer {
	if cfg.ForecastHorizon <= 0 {
		cfg.ForecastHorizon = 10
	}
	if cfg.TradingDays <= 0 {
		cfg.TradingDays = 252
	}
	if cfg.HoldoutFraction <= 0 || cfg.HoldoutFraction >= 0.5 {
		cfg.HoldoutFraction = 0.2
	}
	if cfg.AROrder <= 0 {
		cfg.AROrder = 2
	}
	if len(cfg.Learners) == 0 {
		cfg.Learners = DefaultConfig().Learners
	}
	return &Analyzer{
		cfg: cfg,
		log: log.With().Str("component", "analyzer").Logger(),
	}
}

// minObservations is the shortest series Analyze accepts. The GARCH,
// Kalman, and VECM stages all need room for their lag structures plus a
// holdout split.
const minObservations = 60

// Analyze runs every stage on the index series and merges the results.
//
// Malformed input is the only error path: shape validation happens before
// any fitting, and a failure there is a *timeseries.DataShapeError.
// Numerical trouble inside a stage never propagates; the affected report
// section carries a Degraded flag instead.
func (a *Analyzer) Analyze(index *timeseries.Series, related ...*timeseries.Series) (*Report, error) {
	if index == nil {
		return nil, timeseries.ShapeErrorf("analyze: nil index series")
	}
	if err := index.Validate(); err != nil {
		return nil, err
	}
	if index.Len() < minObservations {
		return nil, timeseries.ShapeErrorf(
			"analyze: need at least %d observations, got %d", minObservations, index.Len())
	}
	for i, s := range related {
		if s == nil {
			return nil, timeseries.ShapeErrorf("analyze: nil related series at index %d", i)
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	log := a.log.With().Str("symbol", index.Symbol).Logger()
	log.Info().
		Int("observations", index.Len()).
		Int("related", len(related)).
		Msg("starting composite analysis")

	returns := index.Returns()
	report := &Report{
		Symbol:      index.Symbol,
		GeneratedAt: time.Now().UTC(),
		NObs:        index.Len(),
	}

	report.GARCH, report.CandidateAICs = a.selectGARCH(log, returns)
	if report.GARCH != nil {
		report.GARCHForecast = report.GARCH.Forecast(a.cfg.ForecastHorizon)
	}

	report.Kalman = a.fitKalman(log, index.Prices)
	report.Cointegration = a.fitVECM(log, index, related)

	report.Regimes = a.regimeAnalysis(report.GARCH, report.Kalman)
	report.Risk = a.riskMetrics(returns, report.GARCH)
	report.Signals = a.tradingSignals(report.GARCH, report.Kalman)
	report.Ensemble = a.ensembleForecast(log, index, returns, report.GARCH, report.Kalman)
	report.Diagnostics = a.diagnostics(returns, report.GARCH)
	report.Insights, report.Recommendations = a.insights(report)

	log.Info().
		Str("garch_kind", string(garchKind(report.GARCH))).
		Bool("degraded", report.AnyDegraded()).
		Float64("quality_score", qualityScore(report.Diagnostics)).
		Msg("composite analysis complete")

	return report, nil
}

// selectGARCH fits every candidate kind and keeps the lowest-AIC fit.
func (a *Analyzer) selectGARCH(log zerolog.Logger, returns []float64) (*garch.Fit, map[string]float64) {
	aics := make(map[string]float64, 3)
	var best *garch.Fit

	for _, kind := range garch.Kinds() {
		fit, err := garch.New(kind, a.cfg.GARCH).Fit(returns)
		if err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("garch candidate rejected")
			continue
		}
		aics[string(kind)] = fit.AIC
		if fit.Degraded {
			log.Warn().
				Str("kind", string(kind)).
				Str("reason", fit.DegradedReason).
				Msg("garch candidate degraded")
		}
		if best == nil || fit.AIC < best.AIC {
			best = fit
		}
	}

	if best != nil {
		log.Debug().
			Str("kind", string(best.Kind)).
			Float64("aic", best.AIC).
			Bool("stationary", best.Stationary).
			Msg("selected volatility model")
	}
	return best, aics
}

func (a *Analyzer) fitKalman(log zerolog.Logger, prices []float64) *kalman.Fit {
	fit, err := kalman.New(kalman.KindLocalTrend, a.cfg.Kalman).Fit(prices)
	if err != nil {
		log.Warn().Err(err).Msg("kalman stage skipped")
		return nil
	}
	if fit.Degraded {
		log.Warn().Str("reason", fit.DegradedReason).Msg("kalman fit degraded")
	}
	return fit
}

// fitVECM runs the cointegration stage over the index and its related
// series, truncated to the common minimum length. With no related series
// the stage returns the single-series degraded fallback.
func (a *Analyzer) fitVECM(log zerolog.Logger, index *timeseries.Series, related []*timeseries.Series) *vecm.Fit {
	all := append([]*timeseries.Series{index}, related...)

	minLen := all[0].Len()
	for _, s := range all[1:] {
		if s.Len() < minLen {
			minLen = s.Len()
		}
	}

	series := make([][]float64, len(all))
	names := make([]string, len(all))
	for i, s := range all {
		series[i] = s.Prices[len(s.Prices)-minLen:]
		names[i] = s.Symbol
	}

	cfg := a.cfg.VECM
	cfg.Names = names
	fit, err := vecm.New(cfg).Fit(series)
	if err != nil {
		log.Warn().Err(err).Msg("cointegration stage skipped")
		return nil
	}
	if fit.Degraded {
		log.Debug().Str("reason", fit.DegradedReason).Msg("cointegration fit degraded")
	} else {
		log.Debug().
			Int("n_cointegrating", fit.Johansen.NCointegrating).
			Msg("cointegration analysis complete")
	}
	return fit
}

func garchKind(fit *garch.Fit) garch.Kind {
	if fit == nil {
		return ""
	}
	return fit.Kind
}

func qualityScore(d *DiagnosticsReport) float64 {
	if d == nil {
		return 0
	}
	return d.QualityScore
}
