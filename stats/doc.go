// Package stats provides regression, stationarity tests, and residual
// diagnostics for time series analysis.
//
// # Regression
//
// Ordinary least squares over a gonum design matrix, with an SVD
// least-squares fallback for rank-deficient designs:
//
//	x := stats.Design(rows) // n x k, includes intercept column
//	res, err := stats.OLS(x, y)
//	// res.Coeffs, res.StdErrors, res.Residuals, res.R2
//
// # Stationarity Tests
//
// Test whether a series is stationary:
//
//	// Augmented Dickey-Fuller: H0 = unit root (non-stationary)
//	adf := stats.ADF(values, 0)
//
//	// KPSS: H0 = stationary
//	kpss := stats.KPSS(values, "c", 0)
//
// # Autocorrelation
//
//	acf := stats.ACF(values, 20)
//	pacf := stats.PACF(values, 20)
//	phi := stats.YuleWalker(values, 3) // AR coefficient estimates
//
// # Residual Diagnostics
//
// Diagnostics for fitted-model residuals, with p-values from
// gonum/stat/distuv:
//
//	lb := stats.LjungBox(residuals, 10, fitdf) // autocorrelation
//	jb := stats.JarqueBera(residuals)          // normality
//	lm := stats.ARCHLM(residuals, 5)           // remaining ARCH effects
//	dw := stats.DurbinWatson(residuals)        // first-order autocorrelation
package stats
