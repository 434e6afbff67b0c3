package usecase

import (
	"context"
	"log/slog"
	"time"

	"EasyFinder/internal/ports"
)

// Scheduler wires the interval driver with the lead pipeline.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring processing runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		summary, err := s.pipeline.Process(ctx)
		if err != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled run finished", "trigger", trigger, "total", summary.TotalLeads, "emails_sent", summary.EmailsSent)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
