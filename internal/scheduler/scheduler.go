package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"SentimentPanel/internal/pipeline"
)

// Runner executes one pipeline batch.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Scheduler re-runs the pipeline on a cron spec.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Ctx    context.Context
	logger *logrus.Logger

	running sync.Mutex
	mu      sync.Mutex
	runs    int
}

// NewScheduler creates a new Scheduler. The cron spec has a leading seconds
// field; a run still in progress makes the next tick a no-op.
func NewScheduler(ctx context.Context, runner Runner, logger *logrus.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		Runner: runner,
		Ctx:    ctx,
		logger: logger,
	}
}

// Register adds the pipeline task on spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.task); err != nil {
		return fmt.Errorf("register pipeline task: %w", err)
	}
	s.logger.WithField("cron", spec).Info("pipeline task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes the pipeline task immediately (for RUN_ON_START). It is a
// no-op while a scheduled run is in progress.
func (s *Scheduler) RunNow() {
	s.task()
}

// Runs reports how many tasks have completed, successfully or not.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// task runs the pipeline unless another run, scheduled or RunNow, is in progress.
func (s *Scheduler) task() {
	if !s.running.TryLock() {
		s.logger.Warn("pipeline task still running, skipping")
		return
	}
	defer s.running.Unlock()
	defer func() {
		s.mu.Lock()
		s.runs++
		s.mu.Unlock()
	}()

	if err := s.Ctx.Err(); err != nil {
		return
	}
	s.logger.Info("running pipeline task")
	res, err := s.Runner.Run(s.Ctx)
	if err != nil {
		s.logger.WithError(err).Error("pipeline run failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"tickers":  res.Summary.Tickers,
		"duration": res.Summary.Duration.String(),
	}).Info("pipeline task finished")
}
