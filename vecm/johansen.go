package vecm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goquant/stats"
	"github.com/sartorproj/goquant/timeseries"
)

// johansen runs the simplified rank-detection step. Each level series is
// regressed on the others' levels; the residuals are the candidate
// error-correction terms. The eigenvalues of the squared canonical
// correlation between the first differences and the lagged residuals lie
// in [0,1]: near zero when lagged deviations carry no information about
// the next move (no cointegration), well above zero when they do. Values
// over the configured threshold count as cointegrating directions, and
// their eigenvectors are mapped back to level space to form the
// cointegrating vectors.
func (m *Model) johansen(series [][]float64) (JohansenSummary, [][]float64, error) {
	k := len(series)
	n := len(series[0])

	// Level regressions: residual u_i and coefficients of series i on the
	// others. Column order per regression: intercept, then the other
	// series in index order.
	residuals := make([][]float64, k)
	coeffs := make([][]float64, k)
	for i := 0; i < k; i++ {
		rows := make([][]float64, n)
		for t := 0; t < n; t++ {
			row := make([]float64, 0, k)
			row = append(row, 1)
			for j := 0; j < k; j++ {
				if j != i {
					row = append(row, series[j][t])
				}
			}
			rows[t] = row
		}
		res, err := stats.OLS(stats.Design(rows), series[i])
		if err != nil {
			return JohansenSummary{}, nil, err
		}
		residuals[i] = res.Residuals
		coeffs[i] = res.Coeffs
	}

	// Z0: first differences at t. Z1: residuals at t-1. m rows each.
	rows := n - 1
	z0 := mat.NewDense(rows, k, nil)
	z1 := mat.NewDense(rows, k, nil)
	for t := 0; t < rows; t++ {
		for j := 0; j < k; j++ {
			z0.Set(t, j, series[j][t+1]-series[j][t])
			z1.Set(t, j, residuals[j][t])
		}
	}

	s00 := crossProduct(z0, z0, rows)
	s11 := crossProduct(z1, z1, rows)
	s01 := crossProduct(z0, z1, rows)

	var s00Inv, s11Inv mat.Dense
	if err := s00Inv.Inverse(s00); err != nil {
		return JohansenSummary{}, nil, &timeseries.NumericalDivergenceError{
			Stage:  "johansen",
			Reason: "singular difference covariance",
		}
	}
	if err := s11Inv.Inverse(s11); err != nil {
		return JohansenSummary{}, nil, &timeseries.NumericalDivergenceError{
			Stage:  "johansen",
			Reason: "singular residual covariance",
		}
	}

	// M = S11^-1 S10 S00^-1 S01, the squared canonical correlations of
	// (dy_t, u_{t-1}) as eigenvalues.
	var tmp1, tmp2, prob mat.Dense
	tmp1.Mul(&s11Inv, s01.T())
	tmp2.Mul(&tmp1, &s00Inv)
	prob.Mul(&tmp2, s01)

	var eig mat.Eigen
	if !eig.Factorize(&prob, mat.EigenRight) {
		return JohansenSummary{}, nil, &timeseries.NumericalDivergenceError{
			Stage:  "johansen",
			Reason: "eigendecomposition failed",
		}
	}

	vals := eig.Values(nil)
	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return real(vals[order[a]]) > real(vals[order[b]])
	})

	summary := JohansenSummary{Eigenvalues: make([]float64, k)}
	var vectors [][]float64
	for rank, idx := range order {
		lambda := real(vals[idx])
		if lambda < 0 {
			lambda = 0
		}
		if lambda > 1 {
			lambda = 1
		}
		summary.Eigenvalues[rank] = lambda
		if lambda < 1 {
			summary.TraceStat += -float64(rows) * math.Log(1-lambda)
		}
		if lambda > m.Config.EigenThreshold {
			summary.NCointegrating++
			v := make([]float64, k)
			for j := 0; j < k; j++ {
				v[j] = real(vecs.At(j, idx))
			}
			vectors = append(vectors, levelSpaceVector(v, coeffs))
		}
	}

	if vectors == nil {
		vectors = [][]float64{}
	}
	return summary, vectors, nil
}

// levelSpaceVector maps an eigenvector in residual space to a vector over
// the level series: sum_i v_i*u_i is itself a linear combination of the
// levels, with coefficient v_j minus the other regressions' loadings on
// series j. Normalized to unit length.
func levelSpaceVector(v []float64, coeffs [][]float64) []float64 {
	k := len(v)
	out := make([]float64, k)
	for j := 0; j < k; j++ {
		out[j] = v[j]
		for i := 0; i < k; i++ {
			if i == j {
				continue
			}
			// Position of series j in regression i: intercept first, then
			// the other series in index order.
			pos := 1
			for l := 0; l < k; l++ {
				if l == i {
					continue
				}
				if l == j {
					break
				}
				pos++
			}
			out[j] -= v[i] * coeffs[i][pos]
		}
	}

	norm := 0.0
	for _, x := range out {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for j := range out {
			out[j] /= norm
		}
	}
	return out
}

// crossProduct returns A'B scaled by the row count.
func crossProduct(a, b *mat.Dense, rows int) *mat.Dense {
	_, ka := a.Dims()
	_, kb := b.Dims()
	out := mat.NewDense(ka, kb, nil)
	out.Mul(a.T(), b)
	out.Scale(1/float64(rows), out)
	return out
}
