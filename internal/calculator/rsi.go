package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
)

// wilder is the accumulator carried through the RSI fold.
type wilder struct {
	avgGain float64
	avgLoss float64
}

func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

// next applies one step of Wilder smoothing and returns the new state.
func (w wilder) next(change float64, period int) wilder {
	gain, loss := splitChange(change)
	p := float64(period)
	return wilder{
		avgGain: (w.avgGain*(p-1) + gain) / p,
		avgLoss: (w.avgLoss*(p-1) + loss) / p,
	}
}

// rsi maps the state to an index value. No losses at all means 100.
func (w wilder) rsi() float64 {
	if w.avgLoss == 0 {
		return 100.0
	}
	rs := w.avgGain / w.avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// CalculateRSI computes the Wilder-smoothed RSI at every index.
// The state is seeded at index `period` with the simple means of the first
// `period` gains and losses; earlier indices are null.
func CalculateRSI(closes []float64, period int) ([]null.Float, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]null.Float, len(closes))
	if len(closes) <= period {
		return out, nil
	}

	var state wilder
	for i := 1; i <= period; i++ {
		gain, loss := splitChange(closes[i] - closes[i-1])
		state.avgGain += gain
		state.avgLoss += loss
	}
	state.avgGain /= float64(period)
	state.avgLoss /= float64(period)
	out[period] = null.FloatFrom(state.rsi())

	for i := period + 1; i < len(closes); i++ {
		state = state.next(closes[i]-closes[i-1], period)
		out[i] = null.FloatFrom(state.rsi())
	}
	return out, nil
}
