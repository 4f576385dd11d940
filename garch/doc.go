// Package garch implements GARCH, EGARCH, and TGARCH conditional volatility
// models fitted by Gaussian quasi-maximum likelihood.
//
// # Fitting
//
// Fit a model to a return series:
//
//	model := garch.New(garch.KindGARCH, garch.DefaultConfig())
//	fit, err := model.Fit(returns)
//	if err != nil {
//	    // malformed input only; optimization failure never errors
//	}
//	if fit.Degraded {
//	    // constant-volatility fallback, see fit.DegradedReason
//	}
//
// The conditional variance recursion for GARCH(1,1) is
//
//	sigma2_t = omega + alpha*eps2_{t-1} + beta*sigma2_{t-1}
//
// EGARCH recurses the log variance with an asymmetric term on the shock
// sign; TGARCH (GJR) adds a threshold term on negative shocks. Parameters
// are found with a bounded Nelder-Mead search; stationarity (alpha+beta < 1
// for GARCH) is checked after the fit and reported, not constrained.
//
// # Model selection
//
// Compare candidate kinds by information criterion:
//
//	for _, kind := range garch.Kinds() {
//	    fit, _ := garch.New(kind, cfg).Fit(returns)
//	    // lowest AIC wins
//	}
//
// # Forecasting
//
// Multi-step variance forecasts converge toward the long-run variance:
//
//	fc := fit.Forecast(10)
//	// fc.Volatility, fc.Lower, fc.Upper
package garch
