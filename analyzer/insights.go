package analyzer

import "fmt"

// insights renders the numeric report sections into short human-readable
// statements and actionable recommendations. Pure string derivation; no
// computation of interest happens here.
func (a *Analyzer) insights(r *Report) (insights, recommendations []string) {
	if r.GARCH != nil {
		insights = append(insights, fmt.Sprintf(
			"Best volatility model: %s (AIC %.2f)%s.",
			r.GARCH.Kind, r.GARCH.AIC, degradedSuffix(r.GARCH.Degraded)))
		if !r.GARCH.Stationary {
			insights = append(insights,
				"Fitted volatility process is non-stationary; long-run variance is undefined.")
			recommendations = append(recommendations,
				"Treat multi-step volatility forecasts with caution: the fitted process does not mean-revert.")
		}
	}

	if r.Regimes != nil && !r.Regimes.Degraded {
		insights = append(insights, fmt.Sprintf(
			"Current volatility regime: %s (persistence %.2f); trend %s with %d up / %d down moves.",
			r.Regimes.CurrentVolRegime, r.Regimes.VolPersistence,
			r.Regimes.CurrentTrend, r.Regimes.TrendUp, r.Regimes.TrendDown))
		if r.Regimes.CurrentVolRegime == "high" {
			recommendations = append(recommendations,
				"Elevated volatility regime: consider reducing position sizes.")
		}
	}

	if r.Risk != nil && !r.Risk.Degraded {
		insights = append(insights, fmt.Sprintf(
			"Annualized volatility %.1f%%, 95%% VaR %.2f%%, max drawdown %.1f%%, Sharpe %.2f.",
			r.Risk.AnnualizedVol*100, r.Risk.VaR95*100, r.Risk.MaxDrawdown*100, r.Risk.Sharpe))
		if r.Risk.Skewness < -0.5 {
			insights = append(insights,
				"Return distribution is left-skewed; downside surprises are larger than upside ones.")
		}
	}

	if r.Cointegration != nil && !r.Cointegration.Degraded {
		if n := r.Cointegration.Johansen.NCointegrating; n > 0 {
			insights = append(insights, fmt.Sprintf(
				"Found %d cointegrating relationship(s) across %d series.",
				n, r.Cointegration.NSeries))
			recommendations = append(recommendations,
				"Cointegrated series detected: spread mean-reversion strategies may apply.")
		} else {
			insights = append(insights,
				"No cointegrating relationships detected; series move independently in the long run.")
		}
	}

	if len(r.Signals) > 0 {
		last := r.Signals[len(r.Signals)-1]
		switch last {
		case 1:
			recommendations = append(recommendations,
				"Current signal is long: low volatility with a positive trend.")
		case -1:
			recommendations = append(recommendations,
				"Current signal is short: high volatility with a negative trend.")
		default:
			recommendations = append(recommendations,
				"Current signal is neutral: volatility and trend rules disagree.")
		}
	}

	if r.Ensemble != nil && !r.Ensemble.Degraded && len(r.Ensemble.Forecast) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Ensemble one-step return forecast %.3f%% (model disagreement %.3f%%).",
			r.Ensemble.Forecast[0]*100, r.Ensemble.Uncertainty*100))
	}

	if r.Diagnostics != nil && !r.Diagnostics.Degraded {
		insights = append(insights, fmt.Sprintf(
			"Model quality score %.2f of 1.00.", r.Diagnostics.QualityScore))
		if r.Diagnostics.QualityScore < 0.3 {
			recommendations = append(recommendations,
				"Low diagnostic quality score: residuals show structure the models did not capture.")
		}
	}

	return insights, recommendations
}

func degradedSuffix(degraded bool) string {
	if degraded {
		return " [degraded fallback]"
	}
	return ""
}
