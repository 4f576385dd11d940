// Package garch implements GARCH-family conditional volatility models.
package garch

import (
	"math"

	"github.com/sartorproj/goquant/stats"
	"github.com/sartorproj/goquant/timeseries"
)

// Kind identifies the conditional-variance specification.
type Kind string

const (
	// KindGARCH is the symmetric GARCH(1,1) model.
	KindGARCH Kind = "garch"
	// KindEGARCH is the exponential GARCH(1,1) model with a log-variance
	// recursion and an asymmetric response to the sign of shocks.
	KindEGARCH Kind = "egarch"
	// KindTGARCH is the GJR threshold GARCH(1,1) model with an extra term
	// on negative shocks.
	KindTGARCH Kind = "tgarch"
)

// Kinds lists every supported specification, in candidate-selection order.
func Kinds() []Kind {
	return []Kind{KindGARCH, KindEGARCH, KindTGARCH}
}

// Config holds fitting configuration.
type Config struct {
	MaxIter  int     // optimizer iteration cap (default: 1000)
	Tol      float64 // convergence tolerance on the objective (default: 1e-8)
	DiagLags int     // lags for residual diagnostics (default: 10)
}

// DefaultConfig returns the default fitting configuration.
func DefaultConfig() Config {
	return Config{
		MaxIter:  1000,
		Tol:      1e-8,
		DiagLags: 10,
	}
}

// Model is a fittable conditional-volatility model. A Model is stateless
// across Fit calls; the parameter bounds table is fixed at construction.
type Model struct {
	Kind   Kind
	Config Config

	names []string
	lower []float64
	upper []float64
}

// New creates a model of the given kind.
func New(kind Kind, cfg Config) *Model {
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 1000
	}
	if cfg.Tol <= 0 {
		cfg.Tol = 1e-8
	}
	if cfg.DiagLags <= 0 {
		cfg.DiagLags = 10
	}
	m := &Model{Kind: kind, Config: cfg}
	m.names, m.lower, m.upper = paramSpace(kind)
	return m
}

// Diagnostics holds residual tests on the standardized residuals.
type Diagnostics struct {
	LjungBox   *stats.LjungBoxResult   `json:"ljung_box,omitempty"`
	JarqueBera *stats.JarqueBeraResult `json:"jarque_bera,omitempty"`
	ARCHLM     *stats.ARCHLMResult     `json:"arch_lm,omitempty"`
}

// Fit is the immutable result of a single Fit call.
type Fit struct {
	Kind           Kind               `json:"kind"`
	Params         map[string]float64 `json:"params"`
	CondVolatility []float64          `json:"conditional_volatility"`
	StdResiduals   []float64          `json:"standardized_residuals"`
	LogLik         float64            `json:"log_likelihood"`
	AIC            float64            `json:"aic"`
	BIC            float64            `json:"bic"`
	NumParams      int                `json:"num_params"`
	NObs           int                `json:"n_obs"`
	Stationary     bool               `json:"stationary"`
	Diagnostics    *Diagnostics       `json:"diagnostics,omitempty"`
	Degraded       bool               `json:"degraded"`
	DegradedReason string             `json:"degraded_reason,omitempty"`

	params []float64
}

// Fit estimates the model on a return series by minimizing the negative
// Gaussian quasi-log-likelihood with a bounded Nelder-Mead search.
//
// Optimization failure never propagates: a constant-volatility fallback fit
// tagged Degraded is returned instead. Only malformed input (too few
// observations, non-finite returns) produces an error, and that error is a
// *timeseries.DataShapeError.
func (m *Model) Fit(returns []float64) (*Fit, error) {
	n := len(returns)
	if n < 20 {
		return nil, timeseries.ShapeErrorf("garch: need at least 20 returns, got %d", n)
	}
	for i, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, timeseries.ShapeErrorf("garch: non-finite return at index %d", i)
		}
	}

	sampleVar := variance(returns)
	if sampleVar <= 0 {
		return m.fallbackFit(returns, "zero-variance return series"), nil
	}

	objective := func(p []float64) float64 {
		return m.negLogLik(returns, sampleVar, p)
	}

	x0 := m.initialGuess(sampleVar)
	best, negLL, converged := minimizeBounded(objective, x0, m.lower, m.upper, m.Config.MaxIter, m.Config.Tol)
	if !converged || math.IsNaN(negLL) || math.IsInf(negLL, 0) {
		return m.fallbackFit(returns, "optimizer did not converge"), nil
	}

	condVar := m.recursion(returns, sampleVar, best)
	for _, v := range condVar {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return m.fallbackFit(returns, "non-positive conditional variance"), nil
		}
	}

	fit := &Fit{
		Kind:      m.Kind,
		Params:    make(map[string]float64, len(m.names)),
		NumParams: len(m.names),
		NObs:      n,
		LogLik:    -negLL,
		params:    best,
	}
	for i, name := range m.names {
		fit.Params[name] = best[i]
	}

	fit.CondVolatility = make([]float64, n)
	fit.StdResiduals = make([]float64, n)
	for i := range condVar {
		fit.CondVolatility[i] = math.Sqrt(condVar[i])
		fit.StdResiduals[i] = returns[i] / fit.CondVolatility[i]
	}

	k := float64(fit.NumParams)
	fit.AIC = 2*k - 2*fit.LogLik
	fit.BIC = math.Log(float64(n))*k - 2*fit.LogLik
	fit.Stationary = m.isStationary(best)

	fit.Diagnostics = &Diagnostics{
		LjungBox:   stats.LjungBox(fit.StdResiduals, m.Config.DiagLags, fit.NumParams),
		JarqueBera: stats.JarqueBera(fit.StdResiduals),
		ARCHLM:     stats.ARCHLM(fit.StdResiduals, 5),
	}

	return fit, nil
}

// fallbackFit builds a degraded constant-volatility fit equal to the sample
// standard deviation of the returns.
func (m *Model) fallbackFit(returns []float64, reason string) *Fit {
	n := len(returns)
	sampleVar := variance(returns)
	if sampleVar <= 0 {
		sampleVar = 1e-10
	}
	vol := math.Sqrt(sampleVar)

	fit := &Fit{
		Kind:           m.Kind,
		Params:         map[string]float64{"omega": sampleVar, "alpha": 0, "beta": 0},
		CondVolatility: make([]float64, n),
		StdResiduals:   make([]float64, n),
		NumParams:      1,
		NObs:           n,
		Stationary:     true,
		Degraded:       true,
		DegradedReason: reason,
		params:         []float64{sampleVar, 0, 0},
	}

	logLik := 0.0
	for i, r := range returns {
		fit.CondVolatility[i] = vol
		fit.StdResiduals[i] = r / vol
		logLik -= 0.5 * (math.Log(2*math.Pi) + math.Log(sampleVar) + r*r/sampleVar)
	}
	fit.LogLik = logLik
	fit.AIC = 2 - 2*logLik
	fit.BIC = math.Log(float64(n)) - 2*logLik
	return fit
}

// negLogLik computes -L = 0.5 * sum(ln 2pi + ln sigma2_t + eps2_t/sigma2_t).
func (m *Model) negLogLik(returns []float64, sampleVar float64, p []float64) float64 {
	condVar := m.recursion(returns, sampleVar, p)
	nll := 0.0
	for i, r := range returns {
		v := condVar[i]
		if v <= 1e-12 || math.IsNaN(v) || math.IsInf(v, 0) {
			return math.Inf(1)
		}
		nll += 0.5 * (math.Log(2*math.Pi) + math.Log(v) + r*r/v)
	}
	return nll
}

// recursion evaluates the conditional variance path for the parameter
// vector. The recursion is seeded with the sample variance.
func (m *Model) recursion(returns []float64, sampleVar float64, p []float64) []float64 {
	n := len(returns)
	condVar := make([]float64, n)

	switch m.Kind {
	case KindEGARCH:
		omega, alpha, gamma, beta := p[0], p[1], p[2], p[3]
		// E|z| for standard normal innovations.
		expAbsZ := math.Sqrt(2 / math.Pi)
		logVar := math.Log(sampleVar)
		condVar[0] = sampleVar
		for t := 1; t < n; t++ {
			sigma := math.Sqrt(condVar[t-1])
			z := returns[t-1] / sigma
			logVar = omega + alpha*(math.Abs(z)-expAbsZ) + gamma*z + beta*logVar
			if logVar > 50 {
				logVar = 50
			}
			condVar[t] = math.Exp(logVar)
		}

	case KindTGARCH:
		omega, alpha, gamma, beta := p[0], p[1], p[2], p[3]
		condVar[0] = sampleVar
		for t := 1; t < n; t++ {
			eps2 := returns[t-1] * returns[t-1]
			leverage := 0.0
			if returns[t-1] < 0 {
				leverage = gamma * eps2
			}
			condVar[t] = omega + alpha*eps2 + leverage + beta*condVar[t-1]
		}

	default: // KindGARCH
		omega, alpha, beta := p[0], p[1], p[2]
		condVar[0] = sampleVar
		for t := 1; t < n; t++ {
			eps2 := returns[t-1] * returns[t-1]
			condVar[t] = omega + alpha*eps2 + beta*condVar[t-1]
		}
	}

	return condVar
}

// initialGuess returns the starting parameter vector: omega scaled to a
// tenth of the sample variance, modest alpha, persistent beta.
func (m *Model) initialGuess(sampleVar float64) []float64 {
	switch m.Kind {
	case KindEGARCH:
		beta := 0.9
		return []float64{(1 - beta) * math.Log(sampleVar), 0.1, -0.05, beta}
	case KindTGARCH:
		return []float64{sampleVar * 0.1, 0.05, 0.05, 0.85}
	default:
		return []float64{sampleVar * 0.1, 0.05, 0.9}
	}
}

// isStationary reports whether the fitted parameters imply a finite
// long-run variance. Checked post-fit, not constrained during search.
func (m *Model) isStationary(p []float64) bool {
	switch m.Kind {
	case KindEGARCH:
		return math.Abs(p[3]) < 1
	case KindTGARCH:
		return p[1]+p[2]/2+p[3] < 1
	default:
		return p[1]+p[2] < 1
	}
}

// paramSpace returns the parameter names and box bounds for each kind.
func paramSpace(kind Kind) (names []string, lower, upper []float64) {
	switch kind {
	case KindEGARCH:
		return []string{"omega", "alpha", "gamma", "beta"},
			[]float64{-10, -2, -2, -0.999},
			[]float64{10, 2, 2, 0.999}
	case KindTGARCH:
		return []string{"omega", "alpha", "gamma", "beta"},
			[]float64{1e-12, 0, 0, 0},
			[]float64{1, 0.999, 0.999, 0.999}
	default:
		return []string{"omega", "alpha", "beta"},
			[]float64{1e-12, 0, 0},
			[]float64{1, 0.999, 0.999}
	}
}

func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(len(values)-1)
}
