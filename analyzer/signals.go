package analyzer

import (
	"github.com/sartorproj/goquant/garch"
	"github.com/sartorproj/goquant/kalman"
	"github.com/sartorproj/goquant/timeseries"
)

// tradingSignals emits one signal per period. A long signal requires both
// rules to agree: conditional volatility below its median and a positive
// Kalman slope. The short side is symmetric; everything else is neutral.
func (a *Analyzer) tradingSignals(garchFit *garch.Fit, kalmanFit *kalman.Fit) []int {
	if garchFit == nil || kalmanFit == nil {
		return nil
	}

	vol := garchFit.CondVolatility
	slopes := kalmanFit.Slopes()
	if len(vol) == 0 || len(slopes) == 0 {
		return nil
	}

	// Returns drop one observation relative to prices, so the volatility
	// path is one shorter than the slope path. Align on the shared tail.
	n := len(vol)
	if len(slopes) < n {
		n = len(slopes)
	}
	volTail := vol[len(vol)-n:]
	slopeTail := slopes[len(slopes)-n:]

	med := timeseries.Median(volTail)
	signals := make([]int, n)
	for i := 0; i < n; i++ {
		lowVol := volTail[i] < med
		highVol := volTail[i] > med
		switch {
		case lowVol && slopeTail[i] > slopeFlatTol:
			signals[i] = 1
		case highVol && slopeTail[i] < -slopeFlatTol:
			signals[i] = -1
		}
	}
	return signals
}
