package usecase

import (
	"context"
	"time"

	"DevInsights/internal/domain"
	"DevInsights/internal/ports"
)

// RunSink receives the outcome of every scheduled run.
type RunSink func(trigger time.Time, profiles []domain.Profile, err error)

// Scheduler wires a recurring driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	query    Query
	sink     RunSink
}

// NewScheduler returns a helper to start and stop recurring collection runs for query.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, query Query, sink RunSink) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, query: query, sink: sink}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		profiles, err := s.pipeline.Run(ctx, s.query)
		if s.sink != nil {
			s.sink(trigger, profiles, err)
		}
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
