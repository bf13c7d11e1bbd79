package calculator

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingCloses(n int, start float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return closes
}

func wavyCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3) + 2*math.Cos(float64(i)*1.7)
	}
	return closes
}

func TestCalculateRSI_AllGains(t *testing.T) {
	rsi, err := CalculateRSI(risingCloses(30, 10), 14)
	require.NoError(t, err)
	require.Len(t, rsi, 30)

	for i, v := range rsi {
		if i < 14 {
			assert.False(t, v.Valid, "index %d should be undefined", i)
			continue
		}
		require.True(t, v.Valid, "index %d should be defined", i)
		assert.Equal(t, 100.0, v.Float64, "index %d", i)
	}
}

func TestCalculateRSI_Bounded(t *testing.T) {
	rsi, err := CalculateRSI(wavyCloses(200), 14)
	require.NoError(t, err)
	for i, v := range rsi {
		if i < 14 {
			assert.False(t, v.Valid)
			continue
		}
		require.True(t, v.Valid)
		assert.GreaterOrEqual(t, v.Float64, 0.0)
		assert.LessOrEqual(t, v.Float64, 100.0)
	}
}

func TestCalculateRSI_WilderRecurrence(t *testing.T) {
	// changes: +1 -1 +2 -1
	rsi, err := CalculateRSI([]float64{1, 2, 1, 3, 2}, 3)
	require.NoError(t, err)

	assert.False(t, rsi[2].Valid)
	assert.InDelta(t, 75.0, rsi[3].Float64, 1e-12)
	// avgGain = 2/3, avgLoss = 5/9, RS = 1.2
	assert.InDelta(t, 100-100/2.2, rsi[4].Float64, 1e-12)
}

func TestCalculateRSI_AllLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	rsi, err := CalculateRSI(closes, 14)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rsi[19].Float64)
}

func TestCalculateRSI_ShortSeries(t *testing.T) {
	rsi, err := CalculateRSI(risingCloses(14, 1), 14)
	require.NoError(t, err)
	for _, v := range rsi {
		assert.False(t, v.Valid)
	}

	_, err = CalculateRSI(risingCloses(14, 1), 0)
	assert.Error(t, err)
}

func TestRollingSMA_StrictWindow(t *testing.T) {
	closes := risingCloses(30, 1)
	ma20, err := RollingSMA(closes, 20)
	require.NoError(t, err)

	assert.False(t, ma20[18].Valid)
	require.True(t, ma20[19].Valid)
	sum := 0.0
	for _, c := range closes[:20] {
		sum += c
	}
	assert.InDelta(t, sum/20, ma20[19].Float64, 1e-12)
	assert.InDelta(t, 20.5, ma20[29].Float64, 1e-12)

	ma50, err := RollingSMA(closes, 50)
	require.NoError(t, err)
	for _, v := range ma50 {
		assert.False(t, v.Valid)
	}
}

func TestCalculateSMA_Errors(t *testing.T) {
	_, err := CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.Error(t, err)
	sma, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, sma)
}

func TestCalculateReturns(t *testing.T) {
	closes := risingCloses(30, 10)
	ret := CalculateReturns(closes)

	assert.False(t, ret[0].Valid)
	for i := 1; i < len(closes); i++ {
		require.True(t, ret[i].Valid)
		assert.InDelta(t, 1/closes[i-1], ret[i].Float64, 1e-12)
	}
}

func TestRollingStdDev(t *testing.T) {
	values := []null.Float{
		{}, null.FloatFrom(1), null.FloatFrom(2), null.FloatFrom(3), null.FloatFrom(4), {}, null.FloatFrom(5), null.FloatFrom(5),
	}
	std, err := RollingStdDev(values, 3)
	require.NoError(t, err)

	assert.False(t, std[2].Valid)
	assert.InDelta(t, 1.0, std[3].Float64, 1e-12)
	assert.InDelta(t, 1.0, std[4].Float64, 1e-12)
	assert.False(t, std[5].Valid)
	assert.False(t, std[7].Valid, "window spans a null value")

	_, err = RollingStdDev(values, 1)
	assert.Error(t, err)
}

func TestCalculateEMA(t *testing.T) {
	ema, err := CalculateEMA([]float64{10, 10, 10}, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 10}, ema)

	ema, err = CalculateEMA([]float64{1, 3}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ema[0])
	assert.InDelta(t, 0.5*3+0.5*1, ema[1], 1e-12)

	empty, err := CalculateEMA(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCalculateMACD_HistIdentity(t *testing.T) {
	m, err := CalculateMACD(wavyCloses(120), 12, 26, 9)
	require.NoError(t, err)
	require.Len(t, m.Line, 120)

	assert.Equal(t, 0.0, m.Line[0], "both EMAs are seeded with the first close")
	for i := range m.Line {
		assert.Equal(t, m.Line[i]-m.Signal[i], m.Hist[i])
	}

	_, err = CalculateMACD(wavyCloses(10), 26, 12, 9)
	assert.Error(t, err)
}
