package vecm

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/goquant/stats"
)

const grangerAlpha = 0.05

// granger computes restricted-vs-unrestricted F-tests on every ordered
// pair of differenced series: does adding the cause's lagged differences
// to the effect's own-lag regression reduce the residual sum of squares
// more than chance would?
func (m *Model) granger(fit *Fit, series [][]float64) {
	k := len(series)
	lags := m.Config.Lags

	diffs := make([][]float64, k)
	for i, s := range series {
		diffs[i] = difference(s)
	}

	fit.Granger = make(map[string]*GrangerResult, k*(k-1))
	for effect := 0; effect < k; effect++ {
		for cause := 0; cause < k; cause++ {
			if cause == effect {
				continue
			}
			fit.Granger[m.pairKey(cause, effect)] = grangerPair(diffs[effect], diffs[cause], lags)
		}
	}
}

// grangerPair tests whether x Granger-causes y at the given lag order.
func grangerPair(y, x []float64, lags int) *GrangerResult {
	n := len(y)
	if len(x) < n {
		n = len(x)
	}
	nRows := n - lags
	kUnrestricted := 1 + 2*lags
	if nRows <= kUnrestricted+1 {
		return &GrangerResult{PValue: 1}
	}

	restricted := make([][]float64, nRows)
	unrestricted := make([][]float64, nRows)
	resp := make([]float64, nRows)

	for t := 0; t < nRows; t++ {
		di := t + lags
		rRow := make([]float64, 0, 1+lags)
		uRow := make([]float64, 0, kUnrestricted)
		rRow = append(rRow, 1)
		uRow = append(uRow, 1)
		for lag := 1; lag <= lags; lag++ {
			rRow = append(rRow, y[di-lag])
			uRow = append(uRow, y[di-lag])
		}
		for lag := 1; lag <= lags; lag++ {
			uRow = append(uRow, x[di-lag])
		}
		restricted[t] = rRow
		unrestricted[t] = uRow
		resp[t] = y[di]
	}

	resR, errR := stats.OLS(stats.Design(restricted), resp)
	resU, errU := stats.OLS(stats.Design(unrestricted), resp)
	if errR != nil || errU != nil {
		return &GrangerResult{PValue: 1}
	}

	q := float64(lags)
	dfU := float64(nRows - kUnrestricted)
	if resU.RSS <= 0 || dfU <= 0 {
		return &GrangerResult{PValue: 1}
	}

	f := ((resR.RSS - resU.RSS) / q) / (resU.RSS / dfU)
	if f < 0 || math.IsNaN(f) {
		f = 0
	}

	dist := distuv.F{D1: q, D2: dfU}
	p := 1 - dist.CDF(f)
	return &GrangerResult{F: f, PValue: p, Causes: p < grangerAlpha}
}
