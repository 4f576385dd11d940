package vecm

import "math"

// irfDecay is the geometric decay rate applied to every shock-response
// pair. A placeholder calibration standing in for the VMA representation.
const irfDecay = 0.8

// impulseResponses approximates the response of each variable to a unit
// shock in each other variable by geometric decay, scaled by the residual
// correlation of the pair. Own-shock responses start at one.
func (m *Model) impulseResponses(fit *Fit) {
	k := fit.NSeries
	h := m.Config.Horizon

	fit.ImpulseResponses = make(map[string][]float64, k*k)
	fit.VarianceDecomp = make(map[string][]float64, k*k)

	for shock := 0; shock < k; shock++ {
		for response := 0; response < k; response++ {
			base := 1.0
			if shock != response {
				base = residualCorrelation(fit.Residuals, shock, response)
			}
			path := make([]float64, h)
			for step := 0; step < h; step++ {
				path[step] = base * math.Pow(irfDecay, float64(step))
			}
			fit.ImpulseResponses[m.pairKey(shock, response)] = path
		}
	}

	// Variance decomposition: at each horizon, the share of the response
	// variable's cumulative squared impulse response attributable to each
	// shock. Shares across shocks sum to one per horizon.
	for response := 0; response < k; response++ {
		cumulative := make([][]float64, k)
		for shock := 0; shock < k; shock++ {
			path := fit.ImpulseResponses[m.pairKey(shock, response)]
			cumulative[shock] = make([]float64, h)
			sum := 0.0
			for step := 0; step < h; step++ {
				sum += path[step] * path[step]
				cumulative[shock][step] = sum
			}
		}
		for shock := 0; shock < k; shock++ {
			share := make([]float64, h)
			for step := 0; step < h; step++ {
				total := 0.0
				for s := 0; s < k; s++ {
					total += cumulative[s][step]
				}
				if total > 0 {
					share[step] = cumulative[shock][step] / total
				}
			}
			fit.VarianceDecomp[m.pairKey(shock, response)] = share
		}
	}
}

func residualCorrelation(residuals [][]float64, i, j int) float64 {
	if i >= len(residuals) || j >= len(residuals) {
		return 0
	}
	a, b := residuals[i], residuals[j]
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 2 {
		return 0
	}

	meanA, meanB := 0.0, 0.0
	for t := 0; t < n; t++ {
		meanA += a[t]
		meanB += b[t]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for t := 0; t < n; t++ {
		da, db := a[t]-meanA, b[t]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA <= 0 || varB <= 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
