package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"SentimentPanel/internal/aggregator"
	"SentimentPanel/internal/collector"
	"SentimentPanel/internal/config"
	"SentimentPanel/internal/correlation"
	"SentimentPanel/internal/indicator"
	"SentimentPanel/internal/model"
	"SentimentPanel/internal/notifier"
	"SentimentPanel/internal/recorder"
	"SentimentPanel/internal/report"
	"SentimentPanel/internal/sentiment"
)

// ErrInputNotFound reports a missing price directory or news file.
var ErrInputNotFound = errors.New("input not found")

// Result holds every artifact of one run.
type Result struct {
	Panels       []*model.IndicatorPanel
	Daily        []model.DailySentiment
	Merged       []model.MergedRecord
	Correlations []model.CorrelationResult
	Summary      *model.RunSummary
}

// Pipeline runs the price and sentiment flows end to end.
type Pipeline struct {
	cfg      *config.Config
	source   collector.Source
	engine   *indicator.Engine
	scorer   sentiment.Scorer
	recorder recorder.Recorder
	notifier notifier.Notifier
	writer   *report.Writer
	logger   *logrus.Logger
}

// New wires a pipeline from configuration. Backend and scorer selection
// happen here, once per process.
func New(cfg *config.Config, rec recorder.Recorder, logger *logrus.Logger) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	backend := indicator.Select(cfg.Indicators.Backend, logger)
	scorer := sentiment.NewScorer(cfg.Sentiment.Strategy, logger)
	logger.WithFields(logrus.Fields{
		"indicators": backend.Name(),
		"sentiment":  scorer.Name(),
	}).Info("pipeline strategies selected")

	return &Pipeline{
		cfg:      cfg,
		source:   NewSource(cfg),
		engine:   indicator.NewEngine(backend, logger),
		scorer:   scorer,
		recorder: rec,
		notifier: newNotifier(cfg, logger),
		writer:   report.NewWriter(cfg.Outputs.Dir),
		logger:   logger,
	}
}

// NewSource builds the price source named by data_source.kind.
func NewSource(cfg *config.Config) collector.Source {
	switch cfg.DataSource.Kind {
	case config.SourceYahoo:
		return collector.NewYahooSource(cfg.DataSource.Symbols, cfg.DataSource.Days, cfg.Proxy)
	case config.SourceREST:
		return collector.NewRESTSource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.DataSource.Symbols, cfg.DataSource.Days, cfg.Proxy)
	default:
		return collector.NewCSVDirSource(cfg.Inputs.PriceDir)
	}
}

func newNotifier(cfg *config.Config, logger *logrus.Logger) notifier.Notifier {
	if !cfg.TelegramEnabled() {
		return notifier.NoopNotifier{}
	}
	return notifier.NewTelegramNotifier(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID, cfg.Proxy, logger)
}

// SetNotifier replaces the run report notifier.
func (p *Pipeline) SetNotifier(n notifier.Notifier) { p.notifier = n }

// SetSource replaces the price source.
func (p *Pipeline) SetSource(src collector.Source) { p.source = src }

func (p *Pipeline) checkInputs() error {
	if src, ok := p.source.(*collector.CSVDirSource); ok {
		info, err := os.Stat(src.Dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("price directory %s: %w", src.Dir, ErrInputNotFound)
		}
	}
	info, err := os.Stat(p.cfg.Inputs.NewsPath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("news file %s: %w", p.cfg.Inputs.NewsPath, ErrInputNotFound)
	}
	return nil
}

// Run executes one batch: indicators, sentiment, join, correlation, outputs.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	if err := p.checkInputs(); err != nil {
		return nil, err
	}

	col := collector.NewCollector(p.source, p.engine, p.cfg.Pipeline.Workers, p.logger)
	panels, bars, err := col.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect prices: %w", err)
	}

	items, err := collector.ReadNewsFile(p.cfg.Inputs.NewsPath)
	if err != nil {
		return nil, fmt.Errorf("read news: %w", err)
	}
	scored, err := sentiment.ScoreAll(ctx, p.scorer, items, p.cfg.Pipeline.Workers)
	if err != nil {
		return nil, fmt.Errorf("score headlines: %w", err)
	}
	daily := aggregator.New(p.logger).Aggregate(scored)

	merged := correlation.Merge(panels, daily)
	results := correlation.NewAnalyzer(p.logger).Analyze(merged)

	outputs, err := p.writer.WritePanels(panels)
	if err != nil {
		return nil, err
	}
	mergedPath, err := p.writer.WriteMerged(merged)
	if err != nil {
		return nil, err
	}
	corrPath, err := p.writer.WriteCorrelations(results)
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, mergedPath, corrPath)

	summary := &model.RunSummary{
		StartedAt:    start,
		Duration:     time.Since(start),
		Source:       p.source.Name(),
		Backend:      p.engine.Backend().Name(),
		Strategy:     p.scorer.Name(),
		Tickers:      len(panels),
		Bars:         bars,
		Headlines:    len(items),
		DailyRecords: len(daily),
		MergedRows:   len(merged),
		Correlations: results,
		Outputs:      outputs,
	}
	p.logger.Info(report.FormatSummary(summary))
	if err := p.recorder.RecordRun(summary); err != nil {
		p.logger.WithError(err).Warn("record run failed")
	}
	if err := p.notifier.Notify(ctx, notifier.FormatRunMessage(summary)); err != nil {
		p.logger.WithError(err).Warn("send run report failed")
	}

	return &Result{
		Panels:       panels,
		Daily:        daily,
		Merged:       merged,
		Correlations: results,
		Summary:      summary,
	}, nil
}
