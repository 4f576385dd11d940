package garch

import "math"

// minimizeBounded minimizes f over the box [lower, upper] with Nelder-Mead,
// projecting every trial point back into the box. Returns the best point,
// its objective value, and whether the simplex converged within maxIter.
//
// gonum's optimizers have no box-constraint support, so the search is
// hand-rolled the same way the likelihood recursion is.
func minimizeBounded(f func([]float64) float64, x0, lower, upper []float64, maxIter int, tol float64) ([]float64, float64, bool) {
	dim := len(x0)

	clamp := func(x []float64) {
		for i := range x {
			if x[i] < lower[i] {
				x[i] = lower[i]
			}
			if x[i] > upper[i] {
				x[i] = upper[i]
			}
		}
	}

	// Initial simplex: x0 plus one perturbed vertex per dimension.
	simplex := make([][]float64, dim+1)
	values := make([]float64, dim+1)
	for i := range simplex {
		v := make([]float64, dim)
		copy(v, x0)
		if i > 0 {
			step := 0.05 * (upper[i-1] - lower[i-1])
			if step == 0 {
				step = 0.0025
			}
			v[i-1] += step
		}
		clamp(v)
		simplex[i] = v
		values[i] = f(v)
	}

	const (
		reflect  = 1.0
		expand   = 2.0
		contract = 0.5
		shrink   = 0.5
	)

	converged := false
	for iter := 0; iter < maxIter; iter++ {
		// Order vertices best to worst.
		for i := 1; i < len(values); i++ {
			for j := i; j > 0 && values[j] < values[j-1]; j-- {
				values[j], values[j-1] = values[j-1], values[j]
				simplex[j], simplex[j-1] = simplex[j-1], simplex[j]
			}
		}

		if math.Abs(values[dim]-values[0]) < tol {
			converged = true
			break
		}

		// Centroid of all but the worst vertex.
		centroid := make([]float64, dim)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				centroid[j] += simplex[i][j]
			}
		}
		for j := range centroid {
			centroid[j] /= float64(dim)
		}

		worst := simplex[dim]

		trial := func(coef float64) ([]float64, float64) {
			x := make([]float64, dim)
			for j := range x {
				x[j] = centroid[j] + coef*(centroid[j]-worst[j])
			}
			clamp(x)
			return x, f(x)
		}

		xr, fr := trial(reflect)
		switch {
		case fr < values[0]:
			xe, fe := trial(expand)
			if fe < fr {
				simplex[dim], values[dim] = xe, fe
			} else {
				simplex[dim], values[dim] = xr, fr
			}
		case fr < values[dim-1]:
			simplex[dim], values[dim] = xr, fr
		default:
			xc, fc := trial(-contract)
			if fc < values[dim] {
				simplex[dim], values[dim] = xc, fc
			} else {
				// Shrink toward the best vertex.
				for i := 1; i <= dim; i++ {
					for j := 0; j < dim; j++ {
						simplex[i][j] = simplex[0][j] + shrink*(simplex[i][j]-simplex[0][j])
					}
					clamp(simplex[i])
					values[i] = f(simplex[i])
				}
			}
		}
	}

	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] < values[best] {
			best = i
		}
	}
	return simplex[best], values[best], converged && !math.IsInf(values[best], 0)
}
