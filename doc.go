// Package goquant provides volatility, state-space, and cointegration analytics
// for financial index time series.
//
// GoQuant is a batch, in-process analytics engine. Given one or more historical
// price series it estimates time-varying volatility (GARCH family), latent
// trend state (Kalman filtering and smoothing), and long-run equilibrium
// relationships (VECM / cointegration), then fuses the results into a single
// composite report with regime analysis, risk metrics, trading signals, and an
// ensemble forecast.
//
// # Features
//
//   - GARCH, EGARCH, and TGARCH conditional-volatility models fitted by
//     quasi-maximum likelihood with a bounded optimizer
//   - Kalman filtering and RTS smoothing for local-level, local-trend, and
//     regime-switching state-space models
//   - Cointegration rank detection and Vector Error Correction Model
//     estimation, with Granger causality, impulse responses, and variance
//     decomposition
//   - Risk metrics: VaR, expected shortfall, max drawdown, Sharpe, Sortino
//   - Ensemble forecasting that blends GARCH, Kalman, and regression learners
//     by out-of-sample fit
//
// # Quick Start
//
// Analyze a single index:
//
//	series := timeseries.NewWithSymbol("SPX", prices)
//	a := analyzer.New(analyzer.DefaultConfig(), logger)
//	report, err := a.Analyze(series)
//
// Fit a single volatility model directly:
//
//	model := garch.New(garch.KindGARCH, garch.DefaultConfig())
//	fit, err := model.Fit(series.Returns())
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: price series data structures, validation, and utilities
//   - stats: regression, stationarity tests, and residual diagnostics
//   - garch: conditional-volatility models
//   - kalman: linear-Gaussian state-space models
//   - vecm: cointegration and error-correction models
//   - analyzer: orchestration and composite reporting
//
// Every analysis call operates on freshly allocated state; independent calls
// may run concurrently without synchronization.
//
// # References
//
//   - Bollerslev, T. (1986). Generalized Autoregressive Conditional Heteroskedasticity
//   - Durbin, J., & Koopman, S.J. (2012). Time Series Analysis by State Space Methods
//   - Johansen, S. (1991). Estimation and Hypothesis Testing of Cointegration Vectors
package goquant
