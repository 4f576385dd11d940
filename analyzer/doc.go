// Package analyzer fuses the volatility, state-space, and cointegration
// estimators into a composite report with regime analysis, risk metrics,
// trading signals, an ensemble forecast, and diagnostics.
//
// # Pipeline
//
// Analyze fits all three GARCH kinds and keeps the lowest-AIC candidate,
// fits a local-trend Kalman model to the prices, and runs the
// cointegration analysis over the index plus any related series. The
// derived sections then build on those fits:
//
//   - regime analysis: above/below-median conditional volatility with a
//     persistence score, and trend-move counts from the Kalman slope
//   - risk metrics: annualized volatility, empirical VaR and expected
//     shortfall, max drawdown, Sharpe and Sortino, skew and kurtosis
//   - trading signals: long only when low volatility and positive trend
//     agree, short symmetric, neutral otherwise
//   - ensemble forecast: drift, trend, autoregressive, and feature
//     regression learners blended by out-of-sample R-squared
//   - diagnostics: stationarity, normality, and residual tests folded
//     into a 0-1 quality score
//
// # Failure policy
//
// Shape validation runs before any fitting and is the only error path.
// Every derived section is guarded independently: a numerical failure
// leaves that section nil or tagged Degraded and the report structurally
// complete. Nothing is retried; a degraded learner simply receives zero
// ensemble weight.
//
// # Usage
//
//	a := analyzer.New(analyzer.DefaultConfig(), log)
//	report, err := a.Analyze(index, related...)
//	if err != nil {
//	    // malformed input
//	}
//
// Analyze calls share no mutable state and may run concurrently.
package analyzer
