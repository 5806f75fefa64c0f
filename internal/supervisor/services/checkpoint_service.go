// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const finalCheckpointTimeout = 5 * time.Second

// Checkpointer flushes the store's write-ahead log. *database.DB satisfies it.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService checkpoints the store on an interval and once more on
// shutdown. Failures are logged and do not stop the service.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	logger   zerolog.Logger
}

// NewCheckpointService creates the service. A non-positive interval only
// checkpoints on shutdown.
//
//nolint:gocritic // zerolog.Logger is passed by value by convention
func NewCheckpointService(db Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	return &CheckpointService{
		db:       db,
		interval: interval,
		logger:   logger.With().Str("service", "checkpoint").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), finalCheckpointTimeout)
			s.checkpoint(final)
			cancel()
			return ctx.Err()
		case <-tick:
			s.checkpoint(ctx)
		}
	}
}

func (s *CheckpointService) checkpoint(ctx context.Context) {
	start := time.Now()
	if err := s.db.Checkpoint(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Checkpoint failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("Checkpoint complete")
}

// String implements fmt.Stringer for supervisor logs.
func (s *CheckpointService) String() string {
	return "duckdb-checkpoint"
}
