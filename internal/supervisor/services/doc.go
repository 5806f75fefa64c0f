// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package services adapts Aidhub components to suture.Service.
//
// Each wrapper depends on a small interface rather than the concrete
// component, so tests can drive it with fakes:
//
//	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval, logger))
//	tree.AddMessagingService(services.NewRetrainRouterService(queue))
//	tree.AddMessagingService(services.NewRetrainSchedulerService(queue, schedCfg, logger))
//	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
package services
