package indicator

import (
	"context"
	"fmt"
	"sort"

	"github.com/guregu/null/v6"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"SentimentPanel/internal/calculator"
	"SentimentPanel/internal/model"
)

// Indicator windows and spans.
const (
	ShortWindow      = 20
	LongWindow       = 50
	VolatilityWindow = 20
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	MACDSignal       = 9
)

// Engine turns price series into indicator panels.
type Engine struct {
	backend Backend
	logger  *logrus.Logger
}

// NewEngine creates an Engine that computes RSI and MACD with backend.
func NewEngine(backend Backend, logger *logrus.Logger) *Engine {
	if backend == nil {
		backend = ReferenceBackend{}
	}
	return &Engine{backend: backend, logger: logger}
}

// Backend reports the backend in use.
func (e *Engine) Backend() Backend { return e.backend }

// Compute derives every indicator column for one ticker. Bars are sorted by
// date; bars without a date or close and repeated dates are dropped.
func (e *Engine) Compute(series model.PriceSeries) (*model.IndicatorPanel, error) {
	log := e.logger.WithField("ticker", series.Ticker)
	bars := e.prepare(series, log)
	panel := &model.IndicatorPanel{Ticker: series.Ticker, Rows: make([]model.IndicatorRow, len(bars))}
	if len(bars) == 0 {
		return panel, nil
	}

	closes := calculator.Closes(bars)
	returns := calculator.CalculateReturns(closes)

	ma20, err := calculator.RollingSMA(closes, ShortWindow)
	if err != nil {
		return nil, fmt.Errorf("ma%d: %w", ShortWindow, err)
	}
	ma50, err := calculator.RollingSMA(closes, LongWindow)
	if err != nil {
		return nil, fmt.Errorf("ma%d: %w", LongWindow, err)
	}
	vol, err := calculator.RollingStdDev(returns, VolatilityWindow)
	if err != nil {
		return nil, fmt.Errorf("volatility: %w", err)
	}

	rsi, err := e.backend.RSI(closes, RSIPeriod)
	if err != nil {
		log.WithError(err).Warn("rsi failed on selected backend, retrying with reference")
		if rsi, err = (ReferenceBackend{}).RSI(closes, RSIPeriod); err != nil {
			return nil, fmt.Errorf("rsi: %w", err)
		}
	}
	macd, err := e.backend.MACD(closes, MACDFast, MACDSlow, MACDSignal)
	if err != nil {
		log.WithError(err).Warn("macd failed on selected backend, retrying with reference")
		if macd, err = (ReferenceBackend{}).MACD(closes, MACDFast, MACDSlow, MACDSignal); err != nil {
			return nil, fmt.Errorf("macd: %w", err)
		}
	}

	for i, bar := range bars {
		panel.Rows[i] = model.IndicatorRow{
			PriceBar:      bar,
			Return:        returns[i],
			MA20:          ma20[i],
			MA50:          ma50[i],
			Volatility20d: vol[i],
			RSI14:         rsi[i],
			MACD:          null.FloatFrom(macd.Line[i]),
			MACDSignal:    null.FloatFrom(macd.Signal[i]),
			MACDHist:      null.FloatFrom(macd.Hist[i]),
		}
	}
	return panel, nil
}

func (e *Engine) prepare(series model.PriceSeries, log *logrus.Entry) []model.PriceBar {
	bars := make([]model.PriceBar, 0, len(series.Bars))
	invalid := 0
	for _, bar := range series.Bars {
		if !bar.Date.Valid || !bar.Close.Valid {
			invalid++
			continue
		}
		bar.Ticker = series.Ticker
		bars = append(bars, bar)
	}
	if invalid > 0 {
		log.WithField("rows", invalid).Warn("dropped price rows without date or close")
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Time.Before(bars[j].Date.Time)
	})

	out := bars[:0]
	duplicates := 0
	for i, bar := range bars {
		if i > 0 && bar.Date.Time.Equal(bars[i-1].Date.Time) {
			duplicates++
			continue
		}
		out = append(out, bar)
	}
	if duplicates > 0 {
		log.WithField("rows", duplicates).Warn("dropped duplicate price dates, keeping first occurrence")
	}
	return out
}

// ComputeAll runs Compute for every series with at most workers goroutines.
// Panels keep the order of series.
func (e *Engine) ComputeAll(ctx context.Context, series []model.PriceSeries, workers int) ([]*model.IndicatorPanel, error) {
	panels := make([]*model.IndicatorPanel, len(series))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range series {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			panel, err := e.Compute(series[i])
			if err != nil {
				return fmt.Errorf("compute %s: %w", series[i].Ticker, err)
			}
			panels[i] = panel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return panels, nil
}
