// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package main is the entry point for the Aidhub server.
//
// Aidhub matches donors with registered recipients. Donors search for open
// needs of a donation type near them, ranked by urgency and distance, and
// confirm a donation against one recipient. Every write schedules a model
// retrain in the background.
//
// # Startup Order
//
//  1. Configuration (Koanf v2: defaults, config.yaml, environment)
//  2. DuckDB store
//  3. Geocoder (Nominatim behind a circuit breaker and LRU/Badger cache)
//  4. Model service, urgency estimator and ranking engine
//  5. Retrain queue (Watermill router over an in-process channel)
//  6. HTTP API (chi)
//  7. Supervisor tree (suture v4)
//
// # Commands
//
//	aidhub            run the server
//	aidhub reset -yes delete all recipients and donations and the model artifacts
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests, DuckDB is checkpointed once more and the retrain
// router is closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/aidhub/internal/api"
	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/metrics"
	"github.com/tomtom215/aidhub/internal/supervisor"
	"github.com/tomtom215/aidhub/internal/supervisor/services"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if len(os.Args) > 1 && os.Args[1] == "reset" {
		if err := runReset(cfg, os.Args[2:]); err != nil {
			logging.Fatal().Err(err).Msg("Reset failed")
		}
		return
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run(cfg *config.Config) error {
	metrics.AppInfo.WithLabelValues(version, commit).Set(1)
	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("model_dir", cfg.Training.ModelDir).
		Msg("Starting Aidhub")

	c, err := initComponents(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	queue, err := initRetrain(cfg, c)
	if err != nil {
		return err
	}

	handler := api.NewHandler(api.Dependencies{
		Store:          c.DB,
		Geocoder:       c.Geocoder,
		Ranker:         c.Ranker,
		Estimator:      c.Estimator,
		Forecaster:     c.Models,
		Retrain:        queue,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	scheduler, err := services.NewRetrainSchedulerService(queue, services.RetrainSchedulerConfig{
		TrainOnStartup: cfg.Training.TrainOnStartup,
		Interval:       cfg.Training.TrainInterval,
		Cron:           cfg.Training.TrainCron,
	}, logging.WithComponent("retrain"))
	if err != nil {
		return err
	}

	tree.AddDataService(services.NewCheckpointService(c.DB, cfg.Database.CheckpointInterval, logging.WithComponent("database")))
	tree.AddMessagingService(services.NewRetrainRouterService(queue))
	tree.AddMessagingService(scheduler)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	if err := queue.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing retrain queue")
	}

	logging.Info().Msg("Aidhub stopped")
	return nil
}
