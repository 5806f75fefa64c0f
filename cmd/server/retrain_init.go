// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/retrain"
	"github.com/tomtom215/aidhub/internal/training"
)

// buildTrainers returns one retrain function per model. A successful run
// drops the cached model so the next prediction reloads the new artifact.
func buildTrainers(cfg *config.Config, c *Components) map[string]retrain.TrainFunc {
	urgencyTrainer := training.NewUrgencyTrainer(c.DB, c.Store,
		cfg.Training.UrgencyModelPath(), cfg.Training.Seed,
		logging.WithComponent("training"))
	trendTrainer := training.NewTrendTrainer(c.DB, c.Store,
		cfg.Training.TrendModelPath(), logging.WithComponent("training"))

	return map[string]retrain.TrainFunc{
		training.ModelUrgency: func(ctx context.Context) bool {
			if m := urgencyTrainer.Retrain(ctx); m != nil {
				c.Models.Invalidate(training.ModelUrgency)
				return true
			}
			return false
		},
		training.ModelTrend: func(ctx context.Context) bool {
			if m := trendTrainer.Retrain(ctx); m != nil {
				c.Models.Invalidate(training.ModelTrend)
				return true
			}
			return false
		},
	}
}

// initRetrain wires the retrain queue. The supervisor starts its router.
func initRetrain(cfg *config.Config, c *Components) (*retrain.Queue, error) {
	queue, err := retrain.New(retrain.Config{JobTimeout: cfg.Training.JobTimeout},
		buildTrainers(cfg, c), logging.WithComponent("retrain"))
	if err != nil {
		return nil, fmt.Errorf("failed to create retrain queue: %w", err)
	}
	logging.Info().Strs("models", queue.Models()).Msg("Retrain queue initialized")
	return queue, nil
}
