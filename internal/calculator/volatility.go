package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"
)

// RollingStdDev returns the trailing sample standard deviation (n-1 denominator).
// An index is null unless every value of its window is valid.
func RollingStdDev(values []null.Float, period int) ([]null.Float, error) {
	if period <= 1 {
		return nil, errors.New("period must be greater than 1")
	}
	out := make([]null.Float, len(values))
	window := make([]float64, period)
	valid := 0 // consecutive valid values ending at i
	for i, v := range values {
		if !v.Valid {
			valid = 0
			continue
		}
		valid++
		if valid < period {
			continue
		}
		for j := 0; j < period; j++ {
			window[j] = values[i-period+1+j].Float64
		}
		out[i] = null.FloatFrom(stat.StdDev(window, nil))
	}
	return out, nil
}
