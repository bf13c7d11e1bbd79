package calculator

import "errors"

// CalculateEMA computes the recursive exponential moving average with
// alpha = 2/(span+1), seeded with the first observation.
func CalculateEMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

// MACD holds the three MACD series, aligned with the input closes.
type MACD struct {
	Line   []float64
	Signal []float64
	Hist   []float64
}

// CalculateMACD computes EMA(fast) - EMA(slow), its EMA(signal) and the histogram.
func CalculateMACD(closes []float64, fast, slow, signal int) (*MACD, error) {
	if fast >= slow {
		return nil, errors.New("fast span must be shorter than slow span")
	}
	emaFast, err := CalculateEMA(closes, fast)
	if err != nil {
		return nil, err
	}
	emaSlow, err := CalculateEMA(closes, slow)
	if err != nil {
		return nil, err
	}
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig, err := CalculateEMA(line, signal)
	if err != nil {
		return nil, err
	}
	return NewMACD(line, sig), nil
}

// NewMACD derives the histogram from a line and its signal.
func NewMACD(line, signal []float64) *MACD {
	hist := make([]float64, len(line))
	for i := range line {
		hist[i] = line[i] - signal[i]
	}
	return &MACD{Line: line, Signal: signal, Hist: hist}
}
