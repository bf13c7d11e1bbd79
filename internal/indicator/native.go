package indicator

import (
	"errors"
	"fmt"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/guregu/null/v6"

	"SentimentPanel/internal/calculator"
)

// NativeBackend computes RSI and MACD with github.com/cinar/indicator.
type NativeBackend struct{}

func (NativeBackend) Name() string { return "native" }

// RSI aligns the library output, which skips its idle period, with the input.
// The library yields NaN when a window has neither gains nor losses; that is the
// no-loss case and maps to 100 like the reference.
func (NativeBackend) RSI(closes []float64, period int) ([]null.Float, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]null.Float, len(closes))
	if len(closes) <= period {
		return out, nil
	}

	rsi := momentum.NewRsiWithPeriod[float64](period)
	values := helper.ChanToSlice(rsi.Compute(helper.SliceToChan(closes)))
	idle := rsi.IdlePeriod()
	if len(values) != len(closes)-idle {
		return nil, fmt.Errorf("rsi: got %d values for %d closes", len(values), len(closes))
	}
	for i, v := range values {
		if math.IsNaN(v) {
			v = 100
		}
		out[i+idle] = null.FloatFrom(v)
	}
	return out, nil
}

func (n NativeBackend) MACD(closes []float64, fast, slow, signal int) (*calculator.MACD, error) {
	if fast >= slow {
		return nil, errors.New("fast span must be shorter than slow span")
	}
	if len(closes) == 0 {
		return calculator.NewMACD(nil, nil), nil
	}
	emaFast := n.ema(closes, fast)
	emaSlow := n.ema(closes, slow)
	if len(emaFast) != len(closes) || len(emaSlow) != len(closes) {
		return nil, fmt.Errorf("macd: ema length mismatch for %d closes", len(closes))
	}
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig := n.ema(line, signal)
	if len(sig) != len(line) {
		return nil, fmt.Errorf("macd: signal length %d, want %d", len(sig), len(line))
	}
	return calculator.NewMACD(line, sig), nil
}

// ema seeds the library EMA with the first observation instead of an SMA by
// padding span-1 copies of it in front, so the SMA of the first window is values[0].
func (NativeBackend) ema(values []float64, span int) []float64 {
	padded := make([]float64, 0, len(values)+span-1)
	for i := 0; i < span-1; i++ {
		padded = append(padded, values[0])
	}
	padded = append(padded, values...)

	ema := trend.NewEmaWithPeriod[float64](span)
	return helper.ChanToSlice(ema.Compute(helper.SliceToChan(padded)))
}
