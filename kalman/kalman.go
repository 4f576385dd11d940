// Package kalman implements linear-Gaussian state-space models for price
// series: Kalman filtering, RTS smoothing, and a regime-switching variant.
package kalman

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goquant/timeseries"
)

// Kind identifies the state-space specification.
type Kind string

const (
	// KindLocalLevel is the 1-D random-walk-plus-noise model.
	KindLocalLevel Kind = "local_level"
	// KindLocalTrend is the 2-D level-and-slope model.
	KindLocalTrend Kind = "local_trend"
	// KindRegimeSwitching fits independent local-level filters to high- and
	// low-volatility observation buckets and stitches the results.
	KindRegimeSwitching Kind = "regime_switching"
)

// Config holds filtering configuration. Q and R are set once from the
// differenced series' variance using the two scale fractions, then held
// fixed during filtering.
type Config struct {
	QScale    float64 // process noise fraction of diff variance (default: 0.1)
	RScale    float64 // observation noise fraction of diff variance (default: 0.9)
	VolWindow int     // realized-volatility window for regime splitting (default: 10)
}

// DefaultConfig returns the default filtering configuration.
func DefaultConfig() Config {
	return Config{
		QScale:    0.1,
		RScale:    0.9,
		VolWindow: 10,
	}
}

// Params holds the noise variances used by the filter.
type Params struct {
	Q float64 `json:"q"`
	R float64 `json:"r"`
}

// Fit is the immutable result of a single Fit call.
// len(FilteredStates) always equals the input length.
type Fit struct {
	Kind                Kind          `json:"kind"`
	StateDim            int           `json:"state_dim"`
	FilteredStates      [][]float64   `json:"filtered_states"`
	PredictedStates     [][]float64   `json:"predicted_states"`
	SmoothedStates      [][]float64   `json:"smoothed_states"`
	FilteredCovariances [][][]float64 `json:"filtered_covariances"`
	SmoothedCovariances [][][]float64 `json:"smoothed_covariances"`
	Innovations         []float64     `json:"innovations"`
	LogLik              float64       `json:"log_likelihood"`
	Params              Params        `json:"params"`
	Regimes             []int         `json:"regimes,omitempty"` // regime-switching only: 0 low vol, 1 high vol
	Degraded            bool          `json:"degraded"`
	DegradedReason      string        `json:"degraded_reason,omitempty"`
}

// Model is a fittable state-space model.
type Model struct {
	Kind   Kind
	Config Config
}

// New creates a model of the given kind.
func New(kind Kind, cfg Config) *Model {
	if cfg.QScale <= 0 {
		cfg.QScale = 0.1
	}
	if cfg.RScale <= 0 {
		cfg.RScale = 0.9
	}
	if cfg.VolWindow <= 0 {
		cfg.VolWindow = 10
	}
	return &Model{Kind: kind, Config: cfg}
}

// Fit runs the forward filter and backward RTS smoother on a price series.
// A singular innovation covariance never propagates: a moving-average
// fallback tagged Degraded is returned instead. Only malformed input
// produces an error, and that error is a *timeseries.DataShapeError.
func (m *Model) Fit(prices []float64) (*Fit, error) {
	n := len(prices)
	if n < 10 {
		return nil, timeseries.ShapeErrorf("kalman: need at least 10 prices, got %d", n)
	}
	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, timeseries.ShapeErrorf("kalman: non-finite price at index %d", i)
		}
	}

	if m.Kind == KindRegimeSwitching {
		return m.fitRegimeSwitching(prices), nil
	}

	q, r := m.noiseVariances(prices)
	fit, err := m.filter(prices, q, r)
	if err != nil {
		return m.fallbackFit(prices, err.Error()), nil
	}
	return fit, nil
}

// noiseVariances derives Q and R from the differenced series' variance.
// A heuristic split rather than joint maximum likelihood.
func (m *Model) noiseVariances(prices []float64) (q, r float64) {
	diffVar := diffVariance(prices)
	if diffVar <= 0 {
		diffVar = 1e-8
	}
	return m.Config.QScale * diffVar, m.Config.RScale * diffVar
}

// filter runs the forward pass and RTS smoother for the local-level or
// local-trend specification.
func (m *Model) filter(prices []float64, q, r float64) (*Fit, error) {
	n := len(prices)

	var dim int
	var F, Q *mat.Dense
	var H *mat.Dense

	switch m.Kind {
	case KindLocalTrend:
		dim = 2
		F = mat.NewDense(2, 2, []float64{1, 1, 0, 1})
		H = mat.NewDense(1, 2, []float64{1, 0})
		// Slope noise an order of magnitude below level noise.
		Q = mat.NewDense(2, 2, []float64{q, 0, 0, q / 10})
	default:
		dim = 1
		F = mat.NewDense(1, 1, []float64{1})
		H = mat.NewDense(1, 1, []float64{1})
		Q = mat.NewDense(1, 1, []float64{q})
	}

	x := mat.NewVecDense(dim, nil)
	x.SetVec(0, prices[0])
	if dim == 2 {
		x.SetVec(1, prices[1]-prices[0])
	}

	// Diffuse-ish prior so the first observations dominate.
	P := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		P.Set(i, i, 1e4*(q+r)+1)
	}

	fit := &Fit{
		Kind:                m.Kind,
		StateDim:            dim,
		FilteredStates:      make([][]float64, n),
		PredictedStates:     make([][]float64, n),
		SmoothedStates:      make([][]float64, n),
		FilteredCovariances: make([][][]float64, n),
		SmoothedCovariances: make([][][]float64, n),
		Innovations:         make([]float64, n),
		Params:              Params{Q: q, R: r},
	}

	// Per-step predicted covariances kept for the smoother.
	predCovs := make([]*mat.Dense, n)
	filtCovs := make([]*mat.Dense, n)
	predStates := make([]*mat.VecDense, n)
	filtStates := make([]*mat.VecDense, n)

	identity := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		identity.Set(i, i, 1)
	}

	logLik := 0.0
	for t := 0; t < n; t++ {
		// Predict.
		xPred := mat.NewVecDense(dim, nil)
		xPred.MulVec(F, x)

		var fp, pPred mat.Dense
		fp.Mul(F, P)
		pPred.Mul(&fp, F.T())
		pPred.Add(&pPred, Q)

		// Innovation.
		var hx mat.VecDense
		hx.MulVec(H, xPred)
		innov := prices[t] - hx.AtVec(0)

		var hp, s mat.Dense
		hp.Mul(H, &pPred)
		s.Mul(&hp, H.T())
		sVal := s.At(0, 0) + r
		if sVal <= 1e-12 || math.IsNaN(sVal) {
			return nil, &timeseries.NumericalDivergenceError{
				Stage:  "kalman",
				Reason: "singular innovation covariance",
			}
		}

		// Gain and update.
		var pht mat.Dense
		pht.Mul(&pPred, H.T())
		K := mat.NewVecDense(dim, nil)
		for i := 0; i < dim; i++ {
			K.SetVec(i, pht.At(i, 0)/sVal)
		}

		x = mat.NewVecDense(dim, nil)
		for i := 0; i < dim; i++ {
			x.SetVec(i, xPred.AtVec(i)+K.AtVec(i)*innov)
		}

		var kh mat.Dense
		kh.Mul(K, H)
		var ikh mat.Dense
		ikh.Sub(identity, &kh)
		P = mat.NewDense(dim, dim, nil)
		P.Mul(&ikh, &pPred)
		symmetrize(P)

		logLik += -0.5 * (math.Log(2*math.Pi) + math.Log(sVal) + innov*innov/sVal)

		predStates[t] = xPred
		predCovs[t] = mat.DenseCopyOf(&pPred)
		filtStates[t] = mat.VecDenseCopyOf(x)
		filtCovs[t] = mat.DenseCopyOf(P)

		fit.PredictedStates[t] = vecSlice(xPred)
		fit.FilteredStates[t] = vecSlice(x)
		fit.FilteredCovariances[t] = denseSlice(P)
		fit.Innovations[t] = innov
	}
	fit.LogLik = logLik

	m.smooth(fit, F, predStates, predCovs, filtStates, filtCovs)
	return fit, nil
}

// smooth runs the backward Rauch-Tung-Striebel pass. Smoothed variance is
// never larger than filtered variance at any step.
func (m *Model) smooth(fit *Fit, F *mat.Dense, predStates []*mat.VecDense, predCovs []*mat.Dense, filtStates []*mat.VecDense, filtCovs []*mat.Dense) {
	n := len(filtStates)
	dim := fit.StateDim

	xs := mat.VecDenseCopyOf(filtStates[n-1])
	Ps := mat.DenseCopyOf(filtCovs[n-1])
	fit.SmoothedStates[n-1] = vecSlice(xs)
	fit.SmoothedCovariances[n-1] = denseSlice(Ps)

	for t := n - 2; t >= 0; t-- {
		var predInv mat.Dense
		if err := predInv.Inverse(predCovs[t+1]); err != nil {
			// Singular predicted covariance: keep the filtered estimate.
			fit.SmoothedStates[t] = vecSlice(filtStates[t])
			fit.SmoothedCovariances[t] = denseSlice(filtCovs[t])
			xs = mat.VecDenseCopyOf(filtStates[t])
			Ps = mat.DenseCopyOf(filtCovs[t])
			continue
		}

		// C = P_f F' P_pred^-1
		var pf, C mat.Dense
		pf.Mul(filtCovs[t], F.T())
		C.Mul(&pf, &predInv)

		// x_s = x_f + C (x_s[t+1] - x_pred[t+1])
		diff := mat.NewVecDense(dim, nil)
		diff.SubVec(xs, predStates[t+1])
		var corr mat.VecDense
		corr.MulVec(&C, diff)

		newXs := mat.NewVecDense(dim, nil)
		newXs.AddVec(filtStates[t], &corr)

		// P_s = P_f + C (P_s[t+1] - P_pred[t+1]) C'
		var covDiff mat.Dense
		covDiff.Sub(Ps, predCovs[t+1])
		var cd, cdc mat.Dense
		cd.Mul(&C, &covDiff)
		cdc.Mul(&cd, C.T())

		newPs := mat.NewDense(dim, dim, nil)
		newPs.Add(filtCovs[t], &cdc)
		symmetrize(newPs)

		xs = newXs
		Ps = newPs
		fit.SmoothedStates[t] = vecSlice(xs)
		fit.SmoothedCovariances[t] = denseSlice(Ps)
	}
}

// fitRegimeSwitching partitions observations into high- and low-volatility
// buckets around the median realized volatility, fits an independent
// local-level filter per bucket, and stitches the results back onto the
// full timeline.
func (m *Model) fitRegimeSwitching(prices []float64) *Fit {
	n := len(prices)

	diffs := make([]float64, n)
	for i := 1; i < n; i++ {
		diffs[i] = prices[i] - prices[i-1]
	}
	realizedVol := timeseries.RollingStd(diffs, m.Config.VolWindow)
	med := timeseries.Median(realizedVol)

	regimes := make([]int, n)
	var lowIdx, highIdx []int
	for i := 0; i < n; i++ {
		if realizedVol[i] > med {
			regimes[i] = 1
			highIdx = append(highIdx, i)
		} else {
			lowIdx = append(lowIdx, i)
		}
	}

	level := New(KindLocalLevel, m.Config)
	q, r := level.noiseVariances(prices)

	fit := &Fit{
		Kind:                KindRegimeSwitching,
		StateDim:            1,
		FilteredStates:      make([][]float64, n),
		PredictedStates:     make([][]float64, n),
		SmoothedStates:      make([][]float64, n),
		FilteredCovariances: make([][][]float64, n),
		SmoothedCovariances: make([][][]float64, n),
		Innovations:         make([]float64, n),
		Params:              Params{Q: q, R: r},
		Regimes:             regimes,
	}

	for _, bucket := range [][]int{lowIdx, highIdx} {
		if len(bucket) < 10 {
			// Too few observations to filter: carry the raw prices through.
			for _, idx := range bucket {
				fit.FilteredStates[idx] = []float64{prices[idx]}
				fit.PredictedStates[idx] = []float64{prices[idx]}
				fit.SmoothedStates[idx] = []float64{prices[idx]}
				fit.FilteredCovariances[idx] = [][]float64{{r}}
				fit.SmoothedCovariances[idx] = [][]float64{{r}}
			}
			continue
		}

		sub := make([]float64, len(bucket))
		for i, idx := range bucket {
			sub[i] = prices[idx]
		}

		subQ, subR := level.noiseVariances(sub)
		subFit, err := level.filter(sub, subQ, subR)
		if err != nil {
			fb := level.fallbackFit(sub, err.Error())
			subFit = fb
			fit.Degraded = true
			fit.DegradedReason = fb.DegradedReason
		}

		for i, idx := range bucket {
			fit.FilteredStates[idx] = subFit.FilteredStates[i]
			fit.PredictedStates[idx] = subFit.PredictedStates[i]
			fit.SmoothedStates[idx] = subFit.SmoothedStates[i]
			fit.FilteredCovariances[idx] = subFit.FilteredCovariances[i]
			fit.SmoothedCovariances[idx] = subFit.SmoothedCovariances[i]
			fit.Innovations[idx] = subFit.Innovations[i]
		}
		fit.LogLik += subFit.LogLik
	}

	return fit
}

// fallbackFit builds a degraded fit whose "filtered" state is a
// moving-average-smoothed copy of the series with unit covariance.
func (m *Model) fallbackFit(prices []float64, reason string) *Fit {
	n := len(prices)
	const window = 5

	smoothed := timeseries.RollingMean(prices, window)

	dim := 1
	if m.Kind == KindLocalTrend {
		dim = 2
	}

	fit := &Fit{
		Kind:                m.Kind,
		StateDim:            dim,
		FilteredStates:      make([][]float64, n),
		PredictedStates:     make([][]float64, n),
		SmoothedStates:      make([][]float64, n),
		FilteredCovariances: make([][][]float64, n),
		SmoothedCovariances: make([][][]float64, n),
		Innovations:         make([]float64, n),
		Degraded:            true,
		DegradedReason:      reason,
	}

	for t := 0; t < n; t++ {
		state := make([]float64, dim)
		state[0] = smoothed[t]
		if dim == 2 && t > 0 {
			state[1] = smoothed[t] - smoothed[t-1]
		}
		fit.FilteredStates[t] = state
		fit.PredictedStates[t] = append([]float64(nil), state...)
		fit.SmoothedStates[t] = append([]float64(nil), state...)

		cov := make([][]float64, dim)
		for i := range cov {
			cov[i] = make([]float64, dim)
			cov[i][i] = 1
		}
		fit.FilteredCovariances[t] = cov
		fit.SmoothedCovariances[t] = cov
		fit.Innovations[t] = prices[t] - smoothed[t]
	}
	return fit
}

// Levels returns the filtered level (first state component) per step.
func (f *Fit) Levels() []float64 {
	out := make([]float64, len(f.FilteredStates))
	for i, s := range f.FilteredStates {
		if len(s) > 0 {
			out[i] = s[0]
		}
	}
	return out
}

// Slopes returns the filtered slope per step. For 1-D models the slope is
// the first difference of the filtered level.
func (f *Fit) Slopes() []float64 {
	out := make([]float64, len(f.FilteredStates))
	for i, s := range f.FilteredStates {
		if len(s) > 1 {
			out[i] = s[1]
		} else if i > 0 && len(s) > 0 && len(f.FilteredStates[i-1]) > 0 {
			out[i] = s[0] - f.FilteredStates[i-1][0]
		}
	}
	return out
}

func vecSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func denseSlice(d *mat.Dense) [][]float64 {
	r, c := d.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = d.At(i, j)
		}
	}
	return out
}

func symmetrize(d *mat.Dense) {
	r, _ := d.Dims()
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			avg := (d.At(i, j) + d.At(j, i)) / 2
			d.Set(i, j, avg)
			d.Set(j, i, avg)
		}
	}
}

func diffVariance(prices []float64) float64 {
	if len(prices) < 3 {
		return 0
	}
	diffs := make([]float64, len(prices)-1)
	mean := 0.0
	for i := 1; i < len(prices); i++ {
		diffs[i-1] = prices[i] - prices[i-1]
		mean += diffs[i-1]
	}
	mean /= float64(len(diffs))
	sumSq := 0.0
	for _, d := range diffs {
		diff := d - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(diffs)-1)
}

