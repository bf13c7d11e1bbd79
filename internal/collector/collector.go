package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"
	"github.com/sirupsen/logrus"

	"SentimentPanel/internal/indicator"
	"SentimentPanel/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Price  float64
	Days   int
	Series map[string][]model.PriceBar
	Err    map[string]error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Tickers(_ context.Context) ([]string, error) {
	tickers := make([]string, 0, len(m.Series))
	for t := range m.Series {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (m *MockSource) Bars(_ context.Context, ticker string) ([]model.PriceBar, error) {
	if err, ok := m.Err[ticker]; ok {
		return nil, err
	}
	if bars, ok := m.Series[ticker]; ok && bars != nil {
		return bars, nil
	}
	return generateMockBars(ticker, m.Price, m.Days), nil
}

func generateMockBars(ticker string, basePrice float64, count int) []model.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Ticker: ticker,
			Date:   null.TimeFrom(start.AddDate(0, 0, i)),
			Open:   null.FloatFrom(p * 0.999),
			High:   null.FloatFrom(p * 1.005),
			Low:    null.FloatFrom(p * 0.995),
			Close:  null.FloatFrom(p),
			Volume: null.FloatFrom(1000000),
		}
	}
	return bars
}

// Collector orchestrates price loading and indicator computation.
type Collector struct {
	Source  Source
	Engine  *indicator.Engine
	Workers int
	logger  *logrus.Logger
}

// NewCollector creates a new Collector.
func NewCollector(source Source, engine *indicator.Engine, workers int, logger *logrus.Logger) *Collector {
	return &Collector{Source: source, Engine: engine, Workers: workers, logger: logger}
}

// Collect loads every ticker of the source and computes its indicator panel.
// A ticker that fails to load is skipped with a warning.
func (c *Collector) Collect(ctx context.Context) ([]*model.IndicatorPanel, int, error) {
	tickers, err := c.Source.Tickers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickers: %w", err)
	}

	series := make([]model.PriceSeries, 0, len(tickers))
	bars := 0
	for _, t := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		b, err := c.Source.Bars(ctx, t)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"ticker": t,
				"source": c.Source.Name(),
			}).WithError(err).Warn("price load failed, skipping ticker")
			continue
		}
		bars += len(b)
		series = append(series, model.PriceSeries{Ticker: t, Bars: b})
	}

	panels, err := c.Engine.ComputeAll(ctx, series, c.Workers)
	if err != nil {
		return nil, 0, fmt.Errorf("compute indicators: %w", err)
	}
	c.logger.WithFields(logrus.Fields{
		"source":  c.Source.Name(),
		"tickers": len(panels),
		"bars":    bars,
	}).Info("price panels computed")
	return panels, bars, nil
}
