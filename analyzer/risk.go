package analyzer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goquant/garch"
)

// riskMetrics derives distribution and drawdown measures from the return
// series. Annualized volatility prefers the fitted conditional volatility
// over the raw sample standard deviation when a usable fit exists.
func (a *Analyzer) riskMetrics(returns []float64, garchFit *garch.Fit) *RiskMetrics {
	out := &RiskMetrics{}
	if len(returns) < 10 {
		out.Degraded = true
		out.DegradedReason = "too few returns for risk metrics"
		return out
	}

	annual := math.Sqrt(float64(a.cfg.TradingDays))

	mean, std := stat.MeanStdDev(returns, nil)
	vol := std
	if garchFit != nil && !garchFit.Degraded && len(garchFit.CondVolatility) > 0 {
		vol = garchFit.CondVolatility[len(garchFit.CondVolatility)-1]
	}
	out.AnnualizedVol = vol * annual

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	out.VaR95 = stat.Quantile(0.05, stat.Empirical, sorted, nil)
	out.VaR99 = stat.Quantile(0.01, stat.Empirical, sorted, nil)

	// Tail mean below the 95% VaR.
	tailSum, tailN := 0.0, 0
	for _, r := range sorted {
		if r <= out.VaR95 {
			tailSum += r
			tailN++
		}
	}
	if tailN > 0 {
		out.ExpectedShortfall = tailSum / float64(tailN)
	}

	out.MaxDrawdown = maxDrawdown(returns)

	if std > 0 {
		out.Sharpe = mean / std * annual
	}
	if ds := downsideStd(returns); ds > 0 {
		out.Sortino = mean / ds * annual
	}

	out.Skewness = stat.Skew(returns, nil)
	out.Kurtosis = stat.ExKurtosis(returns, nil)
	return out
}

// maxDrawdown walks the cumulative-return curve and returns the deepest
// peak-to-trough decline as a negative fraction.
func maxDrawdown(returns []float64) float64 {
	equity := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns {
		equity *= 1 + r
		if equity > peak {
			peak = equity
		}
		dd := equity/peak - 1
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// downsideStd is the root-mean-square of negative returns, the Sortino
// denominator.
func downsideStd(returns []float64) float64 {
	sumSq, n := 0.0, 0
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(n))
}
