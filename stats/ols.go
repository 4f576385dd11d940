// Package stats provides regression, stationarity tests, and residual
// diagnostics for time series analysis.
package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goquant/timeseries"
)

// OLSResult holds ordinary least squares estimates.
type OLSResult struct {
	Coeffs      []float64
	StdErrors   []float64 // nil when the design was rank-deficient
	Residuals   []float64
	Fitted      []float64
	RSS         float64
	R2          float64
	NObs        int
	NRegressors int
}

// OLS regresses y on the columns of x, an n-by-k design matrix that already
// includes any intercept column. It solves the normal equations first and
// falls back to SVD least squares when X'X is singular.
func OLS(x *mat.Dense, y []float64) (*OLSResult, error) {
	n, k := x.Dims()
	if n == 0 || n != len(y) {
		return nil, timeseries.ShapeErrorf("design matrix has %d rows, response has %d", n, len(y))
	}
	if n <= k {
		return nil, &timeseries.UnderdeterminedModelError{
			Reason: "fewer observations than regressors",
		}
	}

	yVec := mat.NewVecDense(n, y)
	beta := mat.NewVecDense(k, nil)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var xtxInv mat.Dense
	invErr := xtxInv.Inverse(&xtx)

	rankDeficient := invErr != nil
	if !rankDeficient {
		var xty mat.VecDense
		xty.MulVec(x.T(), yVec)
		beta.MulVec(&xtxInv, &xty)
	} else {
		// X'X singular or badly conditioned: minimum-norm least squares via SVD.
		var svd mat.SVD
		if !svd.Factorize(x, mat.SVDThin) {
			return nil, &timeseries.NumericalDivergenceError{
				Stage:  "ols",
				Reason: "SVD factorization failed on rank-deficient design",
			}
		}
		rank := svd.Rank(1e-12)
		if rank > 0 {
			yMat := mat.NewDense(n, 1, nil)
			for i := 0; i < n; i++ {
				yMat.Set(i, 0, y[i])
			}
			var b mat.Dense
			svd.SolveTo(&b, yMat, rank)
			for i := 0; i < k; i++ {
				beta.SetVec(i, b.At(i, 0))
			}
		}
	}

	result := &OLSResult{
		Coeffs:      make([]float64, k),
		Residuals:   make([]float64, n),
		Fitted:      make([]float64, n),
		NObs:        n,
		NRegressors: k,
	}
	for i := 0; i < k; i++ {
		result.Coeffs[i] = beta.AtVec(i)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, beta)

	yMean := 0.0
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	tss := 0.0
	for i := 0; i < n; i++ {
		result.Fitted[i] = fitted.AtVec(i)
		result.Residuals[i] = y[i] - result.Fitted[i]
		result.RSS += result.Residuals[i] * result.Residuals[i]
		d := y[i] - yMean
		tss += d * d
	}
	if tss > 0 {
		result.R2 = 1 - result.RSS/tss
	}

	if !rankDeficient {
		s2 := result.RSS / float64(n-k)
		result.StdErrors = make([]float64, k)
		for i := 0; i < k; i++ {
			result.StdErrors[i] = math.Sqrt(s2 * xtxInv.At(i, i))
		}
	}

	return result, nil
}

// Design builds a dense design matrix from row slices. All rows must have
// equal length.
func Design(rows [][]float64) *mat.Dense {
	if len(rows) == 0 {
		return nil
	}
	k := len(rows[0])
	x := mat.NewDense(len(rows), k, nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	return x
}
