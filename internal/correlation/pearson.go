package correlation

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinSamples is the smallest sample for which a coefficient is reported.
const MinSamples = 10

// Pearson returns the correlation coefficient of x and y and its two-sided
// p-value under a Student t distribution with len(x)-2 degrees of freedom.
// ok is false when the sample is too small or either side has zero variance.
func Pearson(x, y []float64) (r, p float64, ok bool) {
	n := len(x)
	if n != len(y) || n < 3 {
		return 0, 0, false
	}
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, 0, false
	}
	r = math.Max(-1, math.Min(1, r))
	return r, pValue(r, n), true
}

func pValue(r float64, n int) float64 {
	df := float64(n - 2)
	if math.Abs(r) == 1 {
		return 0
	}
	t := r * math.Sqrt(df/(1-r*r))
	p := 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(math.Abs(t))
	return math.Max(0, math.Min(1, p))
}
