package analyzer

import (
	"github.com/sartorproj/goquant/garch"
	"github.com/sartorproj/goquant/stats"
)

// diagnostics runs stationarity tests on the returns and residual tests on
// the chosen fit's standardized residuals, then folds the p-values into a
// single 0-1 quality score.
//
// Each sub-score is the p-value oriented so that 1 means "no problem
// detected": ADF wants a rejected unit root (low p scores high), the
// remaining tests want their null retained (high p scores high).
func (a *Analyzer) diagnostics(returns []float64, garchFit *garch.Fit) *DiagnosticsReport {
	out := &DiagnosticsReport{}

	var scores []float64

	if adf := stats.ADF(returns, 0); adf != nil {
		out.ADFStat = adf.Statistic
		out.ADFPValue = adf.PValue
		scores = append(scores, clamp01(1-adf.PValue))
	} else {
		out.Degraded = true
		out.DegradedReason = "stationarity tests unavailable"
	}

	if kpss := stats.KPSS(returns, "c", 0); kpss != nil {
		out.KPSSStat = kpss.Statistic
		out.KPSSPValue = kpss.PValue
		scores = append(scores, clamp01(kpss.PValue))
	}

	residuals := returns
	if garchFit != nil && len(garchFit.StdResiduals) > 0 {
		residuals = garchFit.StdResiduals
	}

	if jb := stats.JarqueBera(residuals); jb != nil {
		out.JarqueBeraStat = jb.Statistic
		out.JarqueBeraPValue = jb.PValue
		scores = append(scores, clamp01(jb.PValue))
	}

	fitdf := 0
	if garchFit != nil {
		fitdf = garchFit.NumParams
	}
	if lb := stats.LjungBox(residuals, a.cfg.GARCH.DiagLags, fitdf); lb != nil {
		out.LjungBoxStat = lb.Statistic
		out.LjungBoxPValue = lb.PValue
		scores = append(scores, clamp01(lb.PValue))
	}

	if lm := stats.ARCHLM(residuals, 5); lm != nil {
		out.ARCHLMStat = lm.Statistic
		out.ARCHLMPValue = lm.PValue
		scores = append(scores, clamp01(lm.PValue))
	}

	if len(scores) == 0 {
		out.Degraded = true
		if out.DegradedReason == "" {
			out.DegradedReason = "no diagnostic test could run"
		}
		return out
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	out.QualityScore = sum / float64(len(scores))
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
