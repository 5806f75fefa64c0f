// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"context"
	"time"

	"github.com/tomtom215/aidhub/internal/geocode"
	"github.com/tomtom215/aidhub/internal/models"
	"github.com/tomtom215/aidhub/internal/ranking"
)

// Store is the subset of the record store used by handlers.
// *database.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error
	CreateNeed(ctx context.Context, in *models.NewNeed) (*models.NeedRecord, error)
	MatchDonation(ctx context.Context, req *models.MatchRequest) (*models.MatchResult, error)
	ListFulfilled(ctx context.Context) ([]models.FulfilledRecord, error)
	FulfilledStatsByCategory(ctx context.Context) ([]models.CategoryStats, error)
	TopOpenCategories(ctx context.Context, limit int) ([]models.CategoryCount, error)
	SummaryStats(ctx context.Context) (models.SummaryStats, error)
}

// Ranker orders open needs for a donor.
type Ranker interface {
	Rank(ctx context.Context, donorLocation string, category models.Category) (*ranking.Result, error)
}

// Estimator scores a new need.
type Estimator interface {
	Estimate(ctx context.Context, location string, category models.Category) (urgency, confidence float64)
}

// Forecaster predicts daily request volume per category.
type Forecaster interface {
	ForecastTrend(category models.Category, day time.Time) (float64, bool)
}

// RetrainScheduler accepts fire-and-forget retrain requests.
type RetrainScheduler interface {
	Enqueue(ctx context.Context, reason string, models ...string)
}

// Dependencies wires a Handler. Forecaster and Retrain may be nil.
type Dependencies struct {
	Store      Store
	Geocoder   geocode.Geocoder
	Ranker     Ranker
	Estimator  Estimator
	Forecaster Forecaster
	Retrain    RetrainScheduler

	// RequestTimeout bounds geocoding and store work per request.
	// Zero means no timeout beyond the client's.
	RequestTimeout time.Duration
}

// Handler holds the dependencies of the HTTP handlers.
//
// Handler methods are split across files:
//   - handlers_recipients.go: ranking and need registration
//   - handlers_donate.go: match transaction
//   - handlers_stats.go: history, summary and trending reads
//   - handlers_health.go: health check
type Handler struct {
	store          Store
	geocoder       geocode.Geocoder
	ranker         Ranker
	estimator      Estimator
	forecaster     Forecaster
	retrain        RetrainScheduler
	requestTimeout time.Duration
	now            func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		store:          deps.Store,
		geocoder:       deps.Geocoder,
		ranker:         deps.Ranker,
		estimator:      deps.Estimator,
		forecaster:     deps.Forecaster,
		retrain:        deps.Retrain,
		requestTimeout: deps.RequestTimeout,
		now:            time.Now,
	}
}

// requestContext applies the configured per-request timeout.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

// scheduleRetrain enqueues every model after a committed write. The
// request context only contributes its correlation id.
func (h *Handler) scheduleRetrain(ctx context.Context, reason string) {
	if h.retrain == nil {
		return
	}
	h.retrain.Enqueue(context.WithoutCancel(ctx), reason)
}
