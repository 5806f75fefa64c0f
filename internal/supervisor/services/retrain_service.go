// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// RetrainRouter is the message router behind the retrain queue.
// *retrain.Queue satisfies it.
type RetrainRouter interface {
	Start(ctx context.Context) error
}

// RetrainRouterService runs the retrain router under supervision.
type RetrainRouterService struct {
	router RetrainRouter
}

// NewRetrainRouterService wraps router.
func NewRetrainRouterService(router RetrainRouter) *RetrainRouterService {
	return &RetrainRouterService{router: router}
}

// Serve implements suture.Service.
func (s *RetrainRouterService) Serve(ctx context.Context) error {
	err := s.router.Start(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("retrain router stopped: %w", err)
	}
	return fmt.Errorf("retrain router stopped unexpectedly")
}

// String implements fmt.Stringer for supervisor logs.
func (s *RetrainRouterService) String() string {
	return "retrain-router"
}

// RetrainEnqueuer publishes retrain jobs once its router is subscribed.
// *retrain.Queue satisfies it.
type RetrainEnqueuer interface {
	Running() <-chan struct{}
	Enqueue(ctx context.Context, reason string, models ...string)
}

// RetrainSchedulerConfig controls scheduled retraining.
type RetrainSchedulerConfig struct {
	// TrainOnStartup enqueues every model once the router is running.
	TrainOnStartup bool
	// Interval between scheduled retrains. Zero disables the timer.
	Interval time.Duration
	// Cron is a 5-field cron expression (minute hour dom month dow).
	// When set it takes precedence over Interval.
	Cron string
}

// RetrainSchedulerService enqueues retrain jobs at startup and on a
// schedule, in addition to the event-driven retrains issued by the API.
type RetrainSchedulerService struct {
	queue    RetrainEnqueuer
	config   RetrainSchedulerConfig
	schedule cron.Schedule
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRetrainSchedulerService creates a scheduler for queue. It fails on an
// unparsable cron expression.
//
//nolint:gocritic // zerolog.Logger is passed by value by convention
func NewRetrainSchedulerService(queue RetrainEnqueuer, cfg RetrainSchedulerConfig, logger zerolog.Logger) (*RetrainSchedulerService, error) {
	s := &RetrainSchedulerService{
		queue:  queue,
		config: cfg,
		logger: logger.With().Str("service", "retrain-scheduler").Logger(),
		now:    time.Now,
	}
	if spec := strings.TrimSpace(cfg.Cron); spec != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		sched, err := parser.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid retrain cron %q: %w", spec, err)
		}
		s.schedule = sched
	}
	return s, nil
}

// next returns the next scheduled run after now, or false when nothing is
// scheduled.
func (s *RetrainSchedulerService) next(now time.Time) (time.Time, bool) {
	switch {
	case s.schedule != nil:
		return s.schedule.Next(now), true
	case s.config.Interval > 0:
		return now.Add(s.config.Interval), true
	default:
		return time.Time{}, false
	}
}

// Serve implements suture.Service. Jobs published before the router has
// subscribed would be dropped, so it waits for the router first.
func (s *RetrainSchedulerService) Serve(ctx context.Context) error {
	select {
	case <-s.queue.Running():
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.config.TrainOnStartup {
		s.logger.Info().Msg("Enqueueing startup retrain")
		s.queue.Enqueue(ctx, "startup")
	}

	for {
		now := s.now()
		at, ok := s.next(now)
		if !ok {
			<-ctx.Done()
			return ctx.Err()
		}
		s.logger.Debug().Time("next_run", at).Msg("Retrain scheduled")

		timer := time.NewTimer(at.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			s.queue.Enqueue(ctx, "scheduled")
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *RetrainSchedulerService) String() string {
	return "retrain-scheduler"
}
