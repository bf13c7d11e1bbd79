package correlation

import (
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mathext"

	"SentimentPanel/internal/logging"
	"SentimentPanel/internal/model"
)

// naivePearson is the textbook two-pass formula.
func naivePearson(x, y []float64) float64 {
	n := float64(len(x))
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return sxy / math.Sqrt(sxx*syy)
}

// tTestP is the two-sided p-value via the regularized incomplete beta function.
func tTestP(r float64, n int) float64 {
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	return mathext.RegIncBeta(df/2, 0.5, df/(df+t*t))
}

func TestPearson_MatchesReference(t *testing.T) {
	x := []float64{0.1, -0.3, 0.5, 0.0, 0.2, -0.1, 0.4, 0.3, -0.2, 0.05, 0.15, -0.4}
	y := []float64{0.01, -0.02, 0.015, 0.003, -0.001, -0.004, 0.02, 0.007, -0.01, 0.0, 0.012, -0.015}

	r, p, ok := Pearson(x, y)
	require.True(t, ok)
	assert.InDelta(t, naivePearson(x, y), r, 1e-9)
	assert.InDelta(t, tTestP(r, len(x)), p, 1e-9)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1.0)
}

func TestPearson_Degenerate(t *testing.T) {
	r, p, ok := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)
	assert.Equal(t, 0.0, p)

	_, _, ok = Pearson([]float64{0, 0, 0, 0}, []float64{1, 2, 3, 4})
	assert.False(t, ok, "zero variance")

	_, _, ok = Pearson([]float64{1, 2}, []float64{1, 2})
	assert.False(t, ok)
}

func panel(ticker string, n int, ret func(i int) float64) *model.IndicatorPanel {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]model.IndicatorRow, n)
	for i := range rows {
		rows[i].Ticker = ticker
		rows[i].Date = null.TimeFrom(day.AddDate(0, 0, i))
		rows[i].Close = null.FloatFrom(100)
		if i > 0 {
			rows[i].Return = null.FloatFrom(ret(i))
		}
	}
	return &model.IndicatorPanel{Ticker: ticker, Rows: rows}
}

func TestMerge_ZeroNewsDays(t *testing.T) {
	p := panel("AAA", 5, func(i int) float64 { return 0.01 * float64(i) })
	daily := []model.DailySentiment{
		{Ticker: "AAA", Day: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), AvgSentiment: 0.4, MinSentiment: 0.1, MaxSentiment: 0.7, NewsCount: 2},
		{Ticker: "ZZZ", Day: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), AvgSentiment: 0.9, MinSentiment: 0.9, MaxSentiment: 0.9, NewsCount: 1},
	}
	merged := Merge([]*model.IndicatorPanel{p}, daily)
	require.Len(t, merged, 5)

	for i, rec := range merged {
		if i == 2 {
			assert.Equal(t, 0.4, rec.AvgSentiment)
			assert.Equal(t, 2, rec.NewsCount)
			assert.Equal(t, null.FloatFrom(0.1), rec.MinSentiment)
			continue
		}
		assert.Equal(t, 0.0, rec.AvgSentiment, "row %d", i)
		assert.Equal(t, 0, rec.NewsCount, "row %d", i)
		assert.False(t, rec.MinSentiment.Valid)
		assert.False(t, rec.MaxSentiment.Valid)
	}
	assert.Equal(t, merged[3].Return, merged[3].DailyReturn())
}

func TestAnalyze_GateReportsTrueN(t *testing.T) {
	// 10 rows give 9 defined returns, one short of the gate
	short := panel("SHORT", 10, func(i int) float64 { return float64(i%3) * 0.01 })
	long := panel("LONG", 16, func(i int) float64 { return float64(i%4)*0.01 - 0.015 })

	var daily []model.DailySentiment
	for i := 0; i < 16; i++ {
		day := time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
		pol := float64(i%4)*0.2 - 0.3
		daily = append(daily,
			model.DailySentiment{Ticker: "LONG", Day: day, AvgSentiment: pol, MinSentiment: pol, MaxSentiment: pol, NewsCount: 1},
			model.DailySentiment{Ticker: "SHORT", Day: day, AvgSentiment: -pol, MinSentiment: -pol, MaxSentiment: -pol, NewsCount: 1},
		)
	}

	merged := Merge([]*model.IndicatorPanel{short, long}, daily)
	results := NewAnalyzer(logging.Discard()).Analyze(merged)
	require.Len(t, results, 3)

	assert.Equal(t, "LONG", results[0].Scope)
	assert.Equal(t, 15, results[0].N)
	require.True(t, results[0].Defined())
	assert.InDelta(t, 1.0, results[0].PearsonR.Float64, 1e-9, "sentiment is an affine map of return")

	assert.Equal(t, "SHORT", results[1].Scope)
	assert.Equal(t, 9, results[1].N)
	assert.False(t, results[1].PearsonR.Valid)
	assert.False(t, results[1].PValue.Valid)

	assert.Equal(t, model.GlobalScope, results[2].Scope)
	assert.Equal(t, 24, results[2].N)
	assert.True(t, results[2].Defined())
}

func TestAnalyze_ZeroVariance(t *testing.T) {
	p := panel("FLAT", 20, func(i int) float64 { return 0.01 * float64(i%5) })
	results := NewAnalyzer(logging.Discard()).Analyze(Merge([]*model.IndicatorPanel{p}, nil))
	require.Len(t, results, 2)
	assert.Equal(t, 19, results[0].N)
	assert.False(t, results[0].Defined(), "no news means constant zero sentiment")
	assert.Equal(t, 19, results[1].N)
}

func TestAnalyze_Empty(t *testing.T) {
	results := NewAnalyzer(logging.Discard()).Analyze(nil)
	require.Len(t, results, 1)
	assert.Equal(t, model.CorrelationResult{Scope: model.GlobalScope}, results[0])
}
