// Package vecm implements a simplified cointegration workflow: rank
// detection, vector error correction estimation, Granger causality, and
// geometric-decay impulse responses.
//
// # Rank detection
//
// The rank step is a Johansen-style heuristic, not the textbook procedure:
// each level series is regressed on the others, and the squared canonical
// correlations between the first differences and the lagged regression
// residuals are eigendecomposed. Eigenvalues above a fixed cutoff count as
// cointegrating directions; their eigenvectors, mapped back to level
// space, become the cointegrating vectors. The cutoff is a placeholder
// calibration.
//
// # Estimation
//
// With rank r > 0, each variable's first difference is regressed on the
// r lagged error-correction terms and the lagged differences of every
// variable. The error-correction coefficient per equation is the
// adjustment speed, expected negative for mean reversion toward the
// shared equilibrium. With rank 0 the system degenerates to a VAR in
// first differences.
//
//	model := vecm.New(vecm.DefaultConfig())
//	fit, err := model.Fit([][]float64{spx, ndx})
//	if err != nil {
//	    // malformed input only (unequal lengths, too few observations)
//	}
//	if fit.Degraded {
//	    // fewer than 2 series or degenerate design; n_cointegrating == 0
//	}
package vecm
