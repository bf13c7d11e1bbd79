package aggregator

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"SentimentPanel/internal/model"
)

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

type accumulator struct {
	sum   float64
	min   float64
	max   float64
	count int
}

func (a *accumulator) add(p float64) {
	if a.count == 0 || p < a.min {
		a.min = p
	}
	if a.count == 0 || p > a.max {
		a.max = p
	}
	a.sum += p
	a.count++
}

// Aggregator reduces scored headlines to one record per (ticker, day).
type Aggregator struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate groups items by ticker and the calendar day of their own wall clock.
// Items without a date or ticker are skipped. The result is sorted by (ticker, day).
func (a *Aggregator) Aggregate(items []model.NewsItem) []model.DailySentiment {
	groups := make(map[model.DayKey]*accumulator)
	skipped := 0
	for _, it := range items {
		ticker := NormalizeTicker(it.Ticker)
		if !it.Date.Valid || ticker == "" {
			skipped++
			continue
		}
		key := model.DayKey{Ticker: ticker, Day: model.CalendarDay(it.Date.Time)}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.add(it.Polarity)
	}
	if skipped > 0 {
		a.logger.WithField("items", skipped).Warn("skipped headlines without date or ticker")
	}

	out := make([]model.DailySentiment, 0, len(groups))
	for key, acc := range groups {
		out = append(out, model.DailySentiment{
			Ticker:       key.Ticker,
			Day:          key.Day,
			AvgSentiment: acc.sum / float64(acc.count),
			MinSentiment: acc.min,
			MaxSentiment: acc.max,
			NewsCount:    acc.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Day.Before(out[j].Day)
	})
	return out
}

// Index keys daily records by (ticker, day) for joins.
func Index(daily []model.DailySentiment) map[model.DayKey]model.DailySentiment {
	idx := make(map[model.DayKey]model.DailySentiment, len(daily))
	for _, d := range daily {
		idx[model.DayKey{Ticker: d.Ticker, Day: d.Day}] = d
	}
	return idx
}
