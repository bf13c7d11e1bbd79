package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"SentimentPanel/internal/config"
	"SentimentPanel/internal/logging"
	"SentimentPanel/internal/pipeline"
	"SentimentPanel/internal/recorder"
	"SentimentPanel/internal/report"
	"SentimentPanel/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("config validation")
	}
	logger.WithField("config", cfgPath).Info("SentimentPanel starting")

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.WithError(err).Warn("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()
	if last, ok, err := recorder.LastRun(rec); err != nil {
		logger.WithError(err).Warn("read run history failed")
	} else if ok {
		logger.WithFields(logrus.Fields{
			"started_at": last.StartedAt.Format(time.RFC3339),
			"tickers":    last.Tickers,
		}).Info("previous run: " + report.FormatGlobal(last.Global))
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, rec, logger)

	if cfg.Schedule.Cron == "" {
		if _, err := p.Run(ctx); err != nil {
			logger.WithError(err).Error("pipeline run failed")
			rec.Close()
			os.Exit(1)
		}
		return
	}

	serve(ctx, cfg, p, logger)
}

// serve keeps the process up and re-runs the pipeline on the configured schedule.
func serve(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, logger *logrus.Logger) {
	sched := scheduler.NewScheduler(ctx, p, logger)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		logger.WithError(err).Error("register cron task")
		return
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing pipeline now")
		go sched.RunNow()
	}

	logger.Info("SentimentPanel is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping...")
}
