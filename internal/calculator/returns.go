package calculator

import "github.com/guregu/null/v6"

// CalculateReturns computes the simple period-over-period return close[t]/close[t-1] - 1.
// The first index has no predecessor and is null.
func CalculateReturns(closes []float64) []null.Float {
	out := make([]null.Float, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out[i] = null.FloatFrom(closes[i]/closes[i-1] - 1)
	}
	return out
}
