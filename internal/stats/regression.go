package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LinearFit is an ordinary least-squares fit of y = Slope*x + Intercept
type LinearFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64 // 0 when y has no variance
	N         int
}

// LinearRegression performs simple linear regression (y = a + bx).
// ok is false when the fit is undefined: mismatched lengths, fewer than
// two points, or no spread in x.
func LinearRegression(x, y []float64) (fit LinearFit, ok bool) {
	if len(x) != len(y) || len(x) < 2 {
		return LinearFit{}, false
	}
	if Range(x) == 0 {
		return LinearFit{}, false
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	r2 := 0.0
	if Range(y) > 0 {
		r2 = stat.RSquared(x, y, nil, intercept, slope)
		if math.IsNaN(r2) || math.IsInf(r2, 0) {
			r2 = 0
		}
	}

	return LinearFit{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		N:         len(x),
	}, true
}

// Predict evaluates the fit at x
func (f LinearFit) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}
