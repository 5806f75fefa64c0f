// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package main

import (
	"fmt"

	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/database"
	"github.com/tomtom215/aidhub/internal/geocode"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/ranking"
	"github.com/tomtom215/aidhub/internal/training"
	"github.com/tomtom215/aidhub/internal/training/storage"
	"github.com/tomtom215/aidhub/internal/urgency"
)

// Components holds the long-lived objects shared by the API, the retrain
// queue and the reset command.
type Components struct {
	DB        *database.DB
	Geocoder  *geocode.Service
	Store     *storage.Store
	Models    *training.ModelService
	Estimator *urgency.Estimator
	Ranker    *ranking.Engine
}

// initComponents opens the store and builds the scoring pipeline.
func initComponents(cfg *config.Config) (*Components, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logging.Info().Str("path", cfg.Database.Path).Msg("Database initialized")

	geo := geocode.New(&cfg.Geocode)
	store := storage.NewStore()
	models := training.NewModelService(store,
		cfg.Training.UrgencyModelPath(),
		cfg.Training.TrendModelPath(),
		logging.WithComponent("training"))
	est := urgency.NewEstimator(db, cfg.Urgency.NoiseSigma, nil)

	return &Components{
		DB:        db,
		Geocoder:  geo,
		Store:     store,
		Models:    models,
		Estimator: est,
		Ranker:    ranking.NewEngine(geo, db, est, models),
	}, nil
}

// Close releases the geocode cache and the database.
func (c *Components) Close() {
	if err := c.Geocoder.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing geocode cache")
	}
	if err := c.DB.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}
