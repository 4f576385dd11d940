// Package kalman implements Kalman filtering and Rauch-Tung-Striebel
// smoothing for price series under three state-space specifications.
//
// # Models
//
// local_level tracks a single random-walk level observed with noise.
// local_trend adds an integrated slope component, giving a 2-D state
// [level, slope]. regime_switching splits observations into high- and
// low-volatility buckets around the median rolling volatility, filters
// each bucket independently with a local-level model, and stitches the
// per-bucket estimates back onto the original timeline.
//
// # Noise calibration
//
// The process and observation variances Q and R are set heuristically
// from the variance of the differenced series, split by the configured
// fractions, rather than jointly estimated. This keeps a single filter
// pass O(n) and avoids a likelihood search.
//
// # Fitting
//
//	model := kalman.New(kalman.KindLocalTrend, kalman.DefaultConfig())
//	fit, err := model.Fit(prices)
//	if err != nil {
//	    // malformed input only; filter divergence never errors
//	}
//	slope := fit.Slopes()
//
// A singular innovation covariance triggers a moving-average fallback
// tagged Degraded instead of an error. The smoothed state variance is
// never larger than the filtered variance at any step.
package kalman
