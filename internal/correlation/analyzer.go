package correlation

import (
	"sort"

	"github.com/guregu/null/v6"
	"github.com/sirupsen/logrus"

	"SentimentPanel/internal/aggregator"
	"SentimentPanel/internal/model"
)

// Merge left-joins every indicator row with the sentiment of its (ticker, day).
// Days without news get AvgSentiment 0 and NewsCount 0.
func Merge(panels []*model.IndicatorPanel, daily []model.DailySentiment) []model.MergedRecord {
	idx := aggregator.Index(daily)
	size := 0
	for _, p := range panels {
		size += len(p.Rows)
	}
	out := make([]model.MergedRecord, 0, size)
	for _, p := range panels {
		ticker := aggregator.NormalizeTicker(p.Ticker)
		for _, row := range p.Rows {
			rec := model.MergedRecord{IndicatorRow: row}
			if d, ok := idx[model.DayKey{Ticker: ticker, Day: row.Day()}]; ok {
				rec.AvgSentiment = d.AvgSentiment
				rec.MinSentiment = null.FloatFrom(d.MinSentiment)
				rec.MaxSentiment = null.FloatFrom(d.MaxSentiment)
				rec.NewsCount = d.NewsCount
			}
			out = append(out, rec)
		}
	}
	return out
}

type sample struct {
	sentiment []float64
	returns   []float64
}

func (s *sample) add(rec model.MergedRecord) {
	s.sentiment = append(s.sentiment, rec.AvgSentiment)
	s.returns = append(s.returns, rec.Return.Float64)
}

// Analyzer computes sentiment/return correlations.
type Analyzer struct {
	logger *logrus.Logger
}

func NewAnalyzer(logger *logrus.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze returns one result per ticker, sorted by ticker, followed by the
// pooled global result. Rows with an undefined return are excluded.
func (a *Analyzer) Analyze(records []model.MergedRecord) []model.CorrelationResult {
	perTicker := make(map[string]*sample)
	global := &sample{}
	for _, rec := range records {
		ticker := aggregator.NormalizeTicker(rec.Ticker)
		s, ok := perTicker[ticker]
		if !ok {
			s = &sample{}
			perTicker[ticker] = s
		}
		if !rec.Return.Valid {
			continue
		}
		s.add(rec)
		global.add(rec)
	}

	tickers := make([]string, 0, len(perTicker))
	for t := range perTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	results := make([]model.CorrelationResult, 0, len(tickers)+1)
	for _, t := range tickers {
		results = append(results, a.correlate(t, perTicker[t]))
	}
	return append(results, a.correlate(model.GlobalScope, global))
}

func (a *Analyzer) correlate(scope string, s *sample) model.CorrelationResult {
	res := model.CorrelationResult{Scope: scope, N: len(s.returns)}
	if res.N < MinSamples {
		return res
	}
	r, p, ok := Pearson(s.sentiment, s.returns)
	if !ok {
		a.logger.WithFields(logrus.Fields{
			"scope": scope,
			"n":     res.N,
		}).Warn("correlation undefined, sentiment or return has zero variance")
		return res
	}
	res.PearsonR = null.FloatFrom(r)
	res.PValue = null.FloatFrom(p)
	return res
}
