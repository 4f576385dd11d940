package garch

import "math"

// Forecast band multipliers. Placeholder calibration: a fixed multiplicative
// envelope around the point volatility forecast.
const (
	bandLower = 0.80
	bandUpper = 1.20
)

// Forecast holds a multi-step volatility forecast with envelope bands.
type Forecast struct {
	Volatility []float64 `json:"volatility"`
	Lower      []float64 `json:"lower"`
	Upper      []float64 `json:"upper"`
}

// Forecast recurses the variance equation forward from the last fitted
// state. For stationary fits the path converges toward the long-run
// variance; degraded fits forecast their constant volatility.
func (f *Fit) Forecast(steps int) *Forecast {
	if steps < 1 || len(f.CondVolatility) == 0 {
		return &Forecast{}
	}

	out := &Forecast{
		Volatility: make([]float64, steps),
		Lower:      make([]float64, steps),
		Upper:      make([]float64, steps),
	}

	lastVol := f.CondVolatility[len(f.CondVolatility)-1]
	lastVar := lastVol * lastVol

	if f.Degraded {
		for h := 0; h < steps; h++ {
			out.Volatility[h] = lastVol
		}
		fillBands(out)
		return out
	}

	switch f.Kind {
	case KindEGARCH:
		omega, beta := f.params[0], f.params[3]
		logVar := math.Log(lastVar)
		for h := 0; h < steps; h++ {
			// E[g(z)] = 0 for standard normal z, so only omega and the
			// persistence term survive in expectation.
			logVar = omega + beta*logVar
			if logVar > 50 {
				logVar = 50
			}
			out.Volatility[h] = math.Exp(logVar / 2)
		}

	case KindTGARCH:
		omega, alpha, gamma, beta := f.params[0], f.params[1], f.params[2], f.params[3]
		persistence := alpha + gamma/2 + beta
		v := lastVar
		for h := 0; h < steps; h++ {
			v = omega + persistence*v
			out.Volatility[h] = math.Sqrt(v)
		}

	default:
		omega, alpha, beta := f.params[0], f.params[1], f.params[2]
		persistence := alpha + beta
		v := lastVar
		for h := 0; h < steps; h++ {
			v = omega + persistence*v
			out.Volatility[h] = math.Sqrt(v)
		}
	}

	fillBands(out)
	return out
}

// LongRunVariance returns omega/(1-alpha-beta) for stationary symmetric
// fits, or the last conditional variance otherwise.
func (f *Fit) LongRunVariance() float64 {
	if !f.Degraded && f.Kind == KindGARCH && f.Stationary {
		omega, alpha, beta := f.params[0], f.params[1], f.params[2]
		denom := 1 - alpha - beta
		if denom > 0 {
			return omega / denom
		}
	}
	last := f.CondVolatility[len(f.CondVolatility)-1]
	return last * last
}

func fillBands(fc *Forecast) {
	for h, v := range fc.Volatility {
		fc.Lower[h] = v * bandLower
		fc.Upper[h] = v * bandUpper
	}
}
