package analyzer

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goquant/garch"
	"github.com/sartorproj/goquant/kalman"
	"github.com/sartorproj/goquant/stats"
	"github.com/sartorproj/goquant/timeseries"
)

// featureWindow is the rolling window for the regression learner's
// engineered mean and volatility features.
const featureWindow = 5

// ciMultiplier is the two-sided 95% normal quantile used for the ensemble
// forecast band.
const ciMultiplier = 1.96

// learnerOutput holds one learner's holdout predictions and forward
// forecast.
type learnerOutput struct {
	kind        LearnerKind
	holdoutPred []float64
	forecast    []float64
}

// ensembleForecast trains the enabled learners on the head of the return
// series, scores each on the held-out tail by out-of-sample R-squared, and
// blends their forward forecasts with R-squared-proportional weights.
// A learner backed by a degraded fit is excluded (weight zero).
func (a *Analyzer) ensembleForecast(log zerolog.Logger, index *timeseries.Series, returns []float64, garchFit *garch.Fit, kalmanFit *kalman.Fit) *EnsembleForecast {
	out := &EnsembleForecast{
		Weights:   map[string]float64{},
		HoldoutR2: map[string]float64{},
	}

	n := len(returns)
	holdoutLen := int(float64(n) * a.cfg.HoldoutFraction)
	if holdoutLen < 5 || n-holdoutLen < 20 {
		out.Degraded = true
		out.DegradedReason = "too few returns for a holdout split"
		return out
	}
	split := n - holdoutLen
	train, holdout := returns[:split], returns[split:]
	horizon := a.cfg.ForecastHorizon

	var outputs []learnerOutput
	for _, kind := range a.cfg.Learners {
		var lo *learnerOutput
		switch kind {
		case LearnerGARCH:
			lo = a.garchLearner(garchFit, train, holdoutLen, horizon)
		case LearnerKalman:
			lo = a.kalmanLearner(kalmanFit, index.Prices, split, holdoutLen, horizon)
		case LearnerAR:
			lo = a.arLearner(returns, split, horizon)
		case LearnerRegression:
			lo = a.regressionLearner(returns, garchFit, kalmanFit, split, horizon)
		}
		if lo == nil {
			log.Debug().Str("learner", string(kind)).Msg("ensemble learner unavailable")
			continue
		}
		outputs = append(outputs, *lo)
	}

	if len(outputs) == 0 {
		out.Degraded = true
		out.DegradedReason = "no ensemble learner succeeded"
		return out
	}

	// Weight by out-of-sample R-squared, floored at zero. When every
	// learner scores at or below zero, fall back to equal weights so the
	// blend stays defined.
	weights := make([]float64, len(outputs))
	total := 0.0
	for i, lo := range outputs {
		r2 := holdoutR2(holdout, lo.holdoutPred)
		out.HoldoutR2[string(lo.kind)] = r2
		if r2 > 0 {
			weights[i] = r2
			total += r2
		}
	}
	if total <= 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(weights))
	}
	for i := range weights {
		weights[i] /= total
	}
	for i, lo := range outputs {
		out.Weights[string(lo.kind)] = weights[i]
	}

	out.Forecast = make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		for i, lo := range outputs {
			if h < len(lo.forecast) {
				out.Forecast[h] += weights[i] * lo.forecast[h]
			}
		}
	}

	// Model uncertainty: weighted learner disagreement at step one. The
	// spread is computed directly because the weights sum to one, which
	// zeroes the denominator of the sample-variance estimators.
	if len(outputs) > 1 {
		firsts := make([]float64, len(outputs))
		mean := 0.0
		for i, lo := range outputs {
			if len(lo.forecast) > 0 {
				firsts[i] = lo.forecast[0]
			}
			mean += weights[i] * firsts[i]
		}
		spread := 0.0
		for i, f := range firsts {
			d := f - mean
			spread += weights[i] * d * d
		}
		out.Uncertainty = math.Sqrt(spread)
	}

	// Band width from the volatility forecast when available, otherwise
	// the sample standard deviation of returns.
	out.Lower = make([]float64, horizon)
	out.Upper = make([]float64, horizon)
	fallbackStd := stat.StdDev(returns, nil)
	var volPath []float64
	if garchFit != nil && !garchFit.Degraded {
		volPath = garchFit.Forecast(horizon).Volatility
	}
	for h := 0; h < horizon; h++ {
		width := fallbackStd
		if h < len(volPath) && volPath[h] > 0 {
			width = volPath[h]
		}
		out.Lower[h] = out.Forecast[h] - ciMultiplier*width
		out.Upper[h] = out.Forecast[h] + ciMultiplier*width
	}

	return out
}

// garchLearner predicts the training drift for every step, with the
// volatility fit gating participation: a degraded fit is excluded.
func (a *Analyzer) garchLearner(fit *garch.Fit, train []float64, holdoutLen, horizon int) *learnerOutput {
	if fit == nil || fit.Degraded {
		return nil
	}
	drift := stat.Mean(train, nil)
	lo := &learnerOutput{
		kind:        LearnerGARCH,
		holdoutPred: make([]float64, holdoutLen),
		forecast:    make([]float64, horizon),
	}
	for i := range lo.holdoutPred {
		lo.holdoutPred[i] = drift
	}
	for i := range lo.forecast {
		lo.forecast[i] = drift
	}
	return lo
}

// kalmanLearner converts the filtered slope into a predicted return: the
// slope entering period t divided by the price entering period t.
func (a *Analyzer) kalmanLearner(fit *kalman.Fit, prices []float64, split, holdoutLen, horizon int) *learnerOutput {
	if fit == nil || fit.Degraded {
		return nil
	}
	slopes := fit.Slopes()
	if len(slopes) != len(prices) {
		return nil
	}

	lo := &learnerOutput{
		kind:        LearnerKalman,
		holdoutPred: make([]float64, holdoutLen),
		forecast:    make([]float64, horizon),
	}

	// Return index t corresponds to the price move from prices[t] to
	// prices[t+1], so the prediction uses state at price index t.
	for i := 0; i < holdoutLen; i++ {
		p := split + i
		if prices[p] != 0 {
			lo.holdoutPred[i] = slopes[p] / prices[p]
		}
	}

	lastPrice := prices[len(prices)-1]
	lastSlope := slopes[len(slopes)-1]
	price := lastPrice
	for h := 0; h < horizon; h++ {
		if price != 0 {
			lo.forecast[h] = lastSlope / price
		}
		price += lastSlope
	}
	return lo
}

// arLearner fits Yule-Walker AR coefficients on the training returns and
// predicts one step ahead from realized lags on the holdout, then recurses
// for the forward forecast.
func (a *Analyzer) arLearner(returns []float64, split, horizon int) *learnerOutput {
	order := a.cfg.AROrder
	train := returns[:split]
	if len(train) <= order+2 {
		return nil
	}
	phi := stats.YuleWalker(train, order)
	if phi == nil {
		return nil
	}
	mean := stat.Mean(train, nil)

	predict := func(history []float64, t int) float64 {
		pred := mean
		for j, p := range phi {
			pred += p * (history[t-1-j] - mean)
		}
		return pred
	}

	lo := &learnerOutput{
		kind:        LearnerAR,
		holdoutPred: make([]float64, len(returns)-split),
		forecast:    make([]float64, horizon),
	}
	for i := range lo.holdoutPred {
		lo.holdoutPred[i] = predict(returns, split+i)
	}

	extended := append([]float64(nil), returns...)
	for h := 0; h < horizon; h++ {
		next := predict(extended, len(extended))
		lo.forecast[h] = next
		extended = append(extended, next)
	}
	return lo
}

// regressionLearner regresses returns on lagged engineered features:
// two lagged returns, a rolling mean and rolling volatility, the fitted
// conditional volatility, and the Kalman slope.
func (a *Analyzer) regressionLearner(returns []float64, garchFit *garch.Fit, kalmanFit *kalman.Fit, split, horizon int) *learnerOutput {
	n := len(returns)
	start := featureWindow + 2

	var condVol []float64
	if garchFit != nil && len(garchFit.CondVolatility) == n {
		condVol = garchFit.CondVolatility
	}
	var slopes []float64
	if kalmanFit != nil {
		s := kalmanFit.Slopes()
		// Slopes follow prices, one longer than returns; align on the tail.
		if len(s) == n+1 {
			slopes = s[1:]
		}
	}

	rollMean := timeseries.RollingMean(returns, featureWindow)
	rollStd := timeseries.RollingStd(returns, featureWindow)

	featureRow := func(t int) []float64 {
		row := []float64{1, returns[t-1], returns[t-2], rollMean[t-1], rollStd[t-1]}
		if condVol != nil {
			row = append(row, condVol[t-1])
		}
		if slopes != nil {
			row = append(row, slopes[t-1])
		}
		return row
	}

	if split-start < 20 {
		return nil
	}

	var trainRows [][]float64
	var trainY []float64
	for t := start; t < split; t++ {
		trainRows = append(trainRows, featureRow(t))
		trainY = append(trainY, returns[t])
	}

	res, err := stats.OLS(stats.Design(trainRows), trainY)
	if err != nil {
		return nil
	}

	predict := func(row []float64) float64 {
		pred := 0.0
		for j, c := range res.Coeffs {
			pred += c * row[j]
		}
		return pred
	}

	lo := &learnerOutput{
		kind:        LearnerRegression,
		holdoutPred: make([]float64, n-split),
		forecast:    make([]float64, horizon),
	}
	for i := 0; i < n-split; i++ {
		lo.holdoutPred[i] = predict(featureRow(split + i))
	}

	// Forward forecast holds the slower features at their last observed
	// values and recurses only the lagged returns.
	lastRow := featureRow(n - 1)
	r1, r2 := returns[n-1], returns[n-2]
	for h := 0; h < horizon; h++ {
		row := append([]float64(nil), lastRow...)
		row[1], row[2] = r1, r2
		next := predict(row)
		lo.forecast[h] = next
		r2, r1 = r1, next
	}
	return lo
}

// holdoutR2 scores predictions against realized values: one minus the
// ratio of prediction error to variation around the realized mean.
func holdoutR2(actual, predicted []float64) float64 {
	n := len(actual)
	if n == 0 || len(predicted) < n {
		return 0
	}
	mean := stat.Mean(actual, nil)
	var rss, tss float64
	for i := 0; i < n; i++ {
		e := actual[i] - predicted[i]
		rss += e * e
		d := actual[i] - mean
		tss += d * d
	}
	if tss <= 0 {
		return 0
	}
	return 1 - rss/tss
}
