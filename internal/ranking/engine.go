// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package ranking orders open needs for a donor by distance and urgency.
package ranking

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/aidhub/internal/geocode"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/models"
)

// Composite key weights: lower keys rank first.
const (
	DistanceWeight = 0.3
	UrgencyWeight  = 0.7
)

// NeedLister lists open needs of one category in insertion order.
type NeedLister interface {
	ListNeedsByCategory(ctx context.Context, category models.Category) ([]models.NeedRecord, error)
}

// Estimator scores a (location, category) pair.
type Estimator interface {
	Estimate(ctx context.Context, location string, category models.Category) (urgency, confidence float64)
}

// UrgencyPredictor is the trained urgency model, when one exists.
type UrgencyPredictor interface {
	PredictUrgency(lat, lon float64, category models.Category, ts time.Time) (float64, bool)
}

// Result is a ranked candidate list plus the resolved donor position.
type Result struct {
	DonorCoordinates models.Coordinates
	Candidates       []models.RankedCandidate
}

// Engine ranks candidates for a donor.
type Engine struct {
	geocoder  geocode.Geocoder
	needs     NeedLister
	estimator Estimator
	predictor UrgencyPredictor // optional
}

// NewEngine creates a ranking engine. predictor may be nil.
func NewEngine(geocoder geocode.Geocoder, needs NeedLister, estimator Estimator, predictor UrgencyPredictor) *Engine {
	return &Engine{geocoder: geocoder, needs: needs, estimator: estimator, predictor: predictor}
}

// Rank resolves the donor location and returns open needs of category
// ordered by 0.3·distance_km − 0.7·urgency, ties kept in insertion order.
//
// Errors are *models.AppError: InvalidLocation when the donor location
// cannot be resolved, NoMatch when no open need exists, Internal otherwise.
func (e *Engine) Rank(ctx context.Context, donorLocation string, category models.Category) (*Result, error) {
	category = models.NormalizeCategory(string(category))

	donor, err := e.geocoder.Geocode(ctx, donorLocation)
	if err != nil {
		return nil, models.InvalidLocation(donorLocation, err)
	}

	needs, err := e.needs.ListNeedsByCategory(ctx, category)
	if err != nil {
		return nil, models.Internal(err)
	}
	if len(needs) == 0 {
		return nil, models.NoMatch(category)
	}

	// Statistics are category-wide, so one estimate serves every candidate.
	_, confidence := e.estimator.Estimate(ctx, donorLocation, category)

	candidates := make([]models.RankedCandidate, len(needs))
	for i, n := range needs {
		c := models.RankedCandidate{
			NeedRecord: n,
			Distance:   GeodesicKm(donor.Latitude, donor.Longitude, n.Latitude, n.Longitude),
			Confidence: confidence,
		}
		if e.predictor != nil {
			if p, ok := e.predictor.PredictUrgency(n.Latitude, n.Longitude, n.Category, n.CreatedAt); ok {
				c.PredictedUrgency = &p
			}
		}
		candidates[i] = c
	}

	SortCandidates(candidates)

	logging.Ctx(ctx).Debug().
		Str("category", string(category)).
		Int("candidates", len(candidates)).
		Float64("donor_lat", donor.Latitude).
		Float64("donor_lon", donor.Longitude).
		Msg("Ranked recipients")

	return &Result{DonorCoordinates: donor, Candidates: candidates}, nil
}

// CompositeKey is the ranking key of a candidate. Lower is better.
func CompositeKey(c *models.RankedCandidate) float64 {
	return DistanceWeight*c.Distance - UrgencyWeight*c.Urgency
}

// SortCandidates orders candidates by CompositeKey, stable on ties.
func SortCandidates(cs []models.RankedCandidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return CompositeKey(&cs[i]) < CompositeKey(&cs[j])
	})
}
