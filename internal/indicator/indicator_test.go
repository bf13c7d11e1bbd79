package indicator

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentimentPanel/internal/calculator"
	"SentimentPanel/internal/logging"
	"SentimentPanel/internal/model"
)

func risingSeries(ticker string, n int, start float64) model.PriceSeries {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		c := start + float64(i)
		bars[i] = model.PriceBar{
			Ticker: ticker,
			Date:   null.TimeFrom(day.AddDate(0, 0, i)),
			Open:   null.FloatFrom(c),
			High:   null.FloatFrom(c + 0.5),
			Low:    null.FloatFrom(c - 0.5),
			Close:  null.FloatFrom(c),
			Volume: null.FloatFrom(1000),
		}
	}
	return model.PriceSeries{Ticker: ticker, Bars: bars}
}

func TestEngine_ThirtyDayRisingSeries(t *testing.T) {
	series := risingSeries("AAA", 30, 100)
	panel, err := NewEngine(ReferenceBackend{}, logging.Discard()).Compute(series)
	require.NoError(t, err)
	require.Len(t, panel.Rows, 30)

	rows := panel.Rows
	assert.False(t, rows[18].MA20.Valid)
	require.True(t, rows[19].MA20.Valid)
	sum := 0.0
	for i := 0; i < 20; i++ {
		sum += 100 + float64(i)
	}
	assert.InDelta(t, sum/20, rows[19].MA20.Float64, 1e-12)

	for i, r := range rows {
		if i < RSIPeriod {
			assert.False(t, r.RSI14.Valid, "rsi index %d", i)
		} else {
			assert.Equal(t, 100.0, r.RSI14.Float64, "rsi index %d", i)
		}
		if i == 0 {
			assert.False(t, r.Return.Valid)
		} else {
			assert.InDelta(t, 1/(100+float64(i-1)), r.Return.Float64, 1e-12)
		}
		assert.False(t, r.MA50.Valid)
		assert.True(t, r.MACD.Valid)
		assert.Equal(t, r.MACD.Float64-r.MACDSignal.Float64, r.MACDHist.Float64)
	}

	assert.False(t, rows[19].Volatility20d.Valid)
	assert.True(t, rows[20].Volatility20d.Valid)
}

func TestEngine_PreparesBars(t *testing.T) {
	series := risingSeries("BBB", 5, 10)
	bars := series.Bars
	// reversed order, one duplicate date, one missing close, one missing date
	dup := bars[2]
	dup.Close = null.FloatFrom(999)
	noClose := bars[1]
	noClose.Close = null.Float{}
	noDate := bars[0]
	noDate.Date = null.Time{}
	series.Bars = []model.PriceBar{bars[4], bars[3], bars[2], dup, bars[1], bars[0], noClose, noDate}

	panel, err := NewEngine(nil, logging.Discard()).Compute(series)
	require.NoError(t, err)
	require.Len(t, panel.Rows, 5)
	for i := 1; i < len(panel.Rows); i++ {
		assert.True(t, panel.Rows[i-1].Date.Time.Before(panel.Rows[i].Date.Time))
	}
	assert.Equal(t, 12.0, panel.Rows[2].Close.Float64, "first occurrence of a duplicate date is kept")
}

func TestEngine_EmptySeries(t *testing.T) {
	panel, err := NewEngine(ReferenceBackend{}, logging.Discard()).Compute(model.PriceSeries{Ticker: "EMPTY"})
	require.NoError(t, err)
	assert.Empty(t, panel.Rows)
}

func TestEngine_ComputeAllKeepsOrder(t *testing.T) {
	series := []model.PriceSeries{
		risingSeries("AAA", 40, 10),
		risingSeries("BBB", 3, 10),
		risingSeries("CCC", 60, 50),
	}
	panels, err := NewEngine(ReferenceBackend{}, logging.Discard()).ComputeAll(context.Background(), series, 2)
	require.NoError(t, err)
	require.Len(t, panels, 3)
	assert.Equal(t, "AAA", panels[0].Ticker)
	assert.Equal(t, "BBB", panels[1].Ticker)
	assert.Equal(t, "CCC", panels[2].Ticker)
	assert.Len(t, panels[2].Rows, 60)
	assert.True(t, panels[2].Rows[49].MA50.Valid)
}

func TestEngine_ComputeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(ReferenceBackend{}, logging.Discard()).ComputeAll(ctx, []model.PriceSeries{risingSeries("AAA", 5, 1)}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func wavy(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3) + 2*math.Cos(float64(i)*1.7)
	}
	return closes
}

func TestNativeMatchesReference(t *testing.T) {
	for _, n := range []int{1, 2, 14, 15, 30, 250} {
		closes := wavy(n)

		want, err := ReferenceBackend{}.RSI(closes, RSIPeriod)
		require.NoError(t, err)
		got, err := NativeBackend{}.RSI(closes, RSIPeriod)
		require.NoError(t, err, "n=%d", n)
		require.Len(t, got, len(want))
		for i := range want {
			require.Equal(t, want[i].Valid, got[i].Valid, "n=%d rsi index %d", n, i)
			assert.True(t, withinTolerance(want[i].Float64, got[i].Float64), "n=%d rsi index %d: %v vs %v", n, i, want[i].Float64, got[i].Float64)
		}

		wantMACD, err := ReferenceBackend{}.MACD(closes, MACDFast, MACDSlow, MACDSignal)
		require.NoError(t, err)
		gotMACD, err := NativeBackend{}.MACD(closes, MACDFast, MACDSlow, MACDSignal)
		require.NoError(t, err)
		require.Len(t, gotMACD.Line, n)
		for i := range wantMACD.Line {
			assert.True(t, withinTolerance(wantMACD.Line[i], gotMACD.Line[i]), "n=%d macd index %d", n, i)
			assert.True(t, withinTolerance(wantMACD.Signal[i], gotMACD.Signal[i]), "n=%d signal index %d", n, i)
			assert.Equal(t, gotMACD.Line[i]-gotMACD.Signal[i], gotMACD.Hist[i])
		}
	}
}

func TestNativeRSI_NoLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 5
	}
	got, err := NativeBackend{}.RSI(closes, RSIPeriod)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got[19].Float64, "flat series has no losses")

	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(i + 1)
	}
	got, err = NativeBackend{}.RSI(rising, RSIPeriod)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got[19].Float64)
}

type panickingBackend struct{ ReferenceBackend }

func (panickingBackend) Name() string { return "broken" }

func (panickingBackend) RSI([]float64, int) ([]null.Float, error) {
	panic("library not loaded")
}

type skewedBackend struct{ ReferenceBackend }

func (skewedBackend) MACD(closes []float64, fast, slow, signal int) (*calculator.MACD, error) {
	m, err := calculator.CalculateMACD(closes, fast, slow, signal)
	if err != nil {
		return nil, err
	}
	m.Line[len(m.Line)-1] += 1
	return m, nil
}

func TestProbe(t *testing.T) {
	assert.NoError(t, Probe(ReferenceBackend{}))
	assert.NoError(t, Probe(NativeBackend{}))
	assert.ErrorIs(t, Probe(panickingBackend{}), ErrBackendUnavailable)
	assert.ErrorIs(t, Probe(skewedBackend{}), ErrBackendUnavailable)
}

func TestSelect(t *testing.T) {
	assert.Equal(t, "reference", Select(BackendReference, logging.Discard()).Name())
	assert.Equal(t, "native", Select(BackendAuto, logging.Discard()).Name())
	assert.Equal(t, "native", Select(BackendNative, logging.Discard()).Name())
}
