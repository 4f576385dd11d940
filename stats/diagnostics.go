package stats

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals.
// The null hypothesis is no autocorrelation up to the given lag; p < 0.05
// rejects it. fitdf is the number of parameters estimated by the model
// whose residuals are being tested.
func LjungBox(values []float64, lags, fitdf int) *LjungBoxResult {
	n := len(values)
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(values, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi := distuv.ChiSquared{K: float64(dof)}
	return &LjungBoxResult{
		Statistic: q,
		PValue:    1 - chi.CDF(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// JarqueBeraResult represents the result of a Jarque-Bera normality test.
type JarqueBeraResult struct {
	Statistic float64
	PValue    float64
	Skewness  float64
	Kurtosis  float64 // excess kurtosis
}

// JarqueBera tests residuals for normality via sample skewness and excess
// kurtosis. The null hypothesis is normality; p < 0.05 rejects it.
func JarqueBera(values []float64) *JarqueBeraResult {
	n := len(values)
	if n < 10 {
		return nil
	}

	skew := stat.Skew(values, nil)
	exKurt := stat.ExKurtosis(values, nil)

	jb := float64(n) / 6 * (skew*skew + exKurt*exKurt/4)

	chi := distuv.ChiSquared{K: 2}
	return &JarqueBeraResult{
		Statistic: jb,
		PValue:    1 - chi.CDF(jb),
		Skewness:  skew,
		Kurtosis:  exKurt,
	}
}

// ARCHLMResult represents the result of an ARCH-LM test.
type ARCHLMResult struct {
	Statistic float64
	PValue    float64
	Lags      int
}

// ARCHLM performs Engle's Lagrange multiplier test for remaining ARCH
// effects: squared residuals are regressed on their own lags and the test
// statistic is n times the regression R-squared. The null hypothesis is no
// ARCH effects; p < 0.05 rejects it.
func ARCHLM(residuals []float64, lags int) *ARCHLMResult {
	n := len(residuals)
	if lags < 1 || n < lags+10 {
		return nil
	}

	sq := make([]float64, n)
	for i, r := range residuals {
		sq[i] = r * r
	}

	nObs := n - lags
	y := make([]float64, nObs)
	x := mat.NewDense(nObs, lags+1, nil)
	for i := 0; i < nObs; i++ {
		t := i + lags
		y[i] = sq[t]
		x.Set(i, 0, 1)
		for j := 1; j <= lags; j++ {
			x.Set(i, j, sq[t-j])
		}
	}

	ols, err := OLS(x, y)
	if err != nil {
		return nil
	}

	lm := float64(nObs) * ols.R2
	if lm < 0 {
		lm = 0
	}

	chi := distuv.ChiSquared{K: float64(lags)}
	return &ARCHLMResult{
		Statistic: lm,
		PValue:    1 - chi.CDF(lm),
		Lags:      lags,
	}
}

// DurbinWatsonResult represents the result of a Durbin-Watson test.
// A statistic near 2 indicates no first-order autocorrelation.
type DurbinWatsonResult struct {
	Statistic float64
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation in residuals.
func DurbinWatson(residuals []float64) *DurbinWatsonResult {
	n := len(residuals)
	if n < 2 {
		return nil
	}

	numerator := 0.0
	denominator := 0.0
	for i := 1; i < n; i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}
	for _, r := range residuals {
		denominator += r * r
	}
	if denominator == 0 {
		return nil
	}

	return &DurbinWatsonResult{Statistic: numerator / denominator}
}
