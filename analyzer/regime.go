package analyzer

import (
	"github.com/sartorproj/goquant/garch"
	"github.com/sartorproj/goquant/kalman"
	"github.com/sartorproj/goquant/timeseries"
)

// slopeFlatTol is the absolute slope below which a trend move counts as
// flat.
const slopeFlatTol = 1e-8

// regimeAnalysis classifies periods by conditional volatility relative to
// its median and counts trend moves from the Kalman slope path.
func (a *Analyzer) regimeAnalysis(garchFit *garch.Fit, kalmanFit *kalman.Fit) *RegimeAnalysis {
	out := &RegimeAnalysis{CurrentVolRegime: "unknown", CurrentTrend: "unknown"}

	if garchFit == nil || len(garchFit.CondVolatility) == 0 {
		out.Degraded = true
		out.DegradedReason = "no volatility fit available"
	} else {
		vol := garchFit.CondVolatility
		med := timeseries.Median(vol)

		out.VolRegimes = make([]int, len(vol))
		for i, v := range vol {
			if v > med {
				out.VolRegimes[i] = 1
			}
		}
		if out.VolRegimes[len(out.VolRegimes)-1] == 1 {
			out.CurrentVolRegime = "high"
		} else {
			out.CurrentVolRegime = "low"
		}

		changes := 0
		for i := 1; i < len(out.VolRegimes); i++ {
			if out.VolRegimes[i] != out.VolRegimes[i-1] {
				changes++
			}
		}
		out.VolPersistence = 1 - float64(changes)/float64(len(out.VolRegimes))
	}

	if kalmanFit == nil || len(kalmanFit.FilteredStates) == 0 {
		out.Degraded = true
		if out.DegradedReason == "" {
			out.DegradedReason = "no state-space fit available"
		}
		return out
	}

	slopes := kalmanFit.Slopes()
	for _, s := range slopes {
		switch {
		case s > slopeFlatTol:
			out.TrendUp++
		case s < -slopeFlatTol:
			out.TrendDown++
		default:
			out.TrendFlat++
		}
	}

	last := slopes[len(slopes)-1]
	switch {
	case last > slopeFlatTol:
		out.CurrentTrend = "up"
	case last < -slopeFlatTol:
		out.CurrentTrend = "down"
	default:
		out.CurrentTrend = "flat"
	}

	return out
}
