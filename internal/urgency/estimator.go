// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package urgency scores how pressing a new need is from the open and
// fulfilled history of its category.
package urgency

import (
	"context"
	"math/rand"
	"sync"

	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/models"
)

const (
	// DefaultUrgency and DefaultConfidence are returned when a category has
	// no history or the store cannot be read.
	DefaultUrgency    = 3.0
	DefaultConfidence = 0.5

	// DataConfidence is reported whenever at least one record informed the score.
	DataConfidence = 0.7

	openWeight      = 0.7
	fulfilledWeight = 0.3

	minEstimate = 1.5
	maxEstimate = 5.0
)

// StatsSource provides per-category urgency aggregates.
type StatsSource interface {
	UrgencyStats(ctx context.Context, category models.Category) (models.UrgencyStats, error)
}

// Estimator blends open and fulfilled means with a little Gaussian jitter so
// identical requests do not all receive the same flat score.
type Estimator struct {
	source StatsSource
	sigma  float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEstimator creates an estimator with noise standard deviation sigma.
// rng may be nil, in which case a time-seeded source is used.
func NewEstimator(source StatsSource, sigma float64, rng *rand.Rand) *Estimator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // jitter, not security
	}
	return &Estimator{source: source, sigma: sigma, rng: rng}
}

// Estimate returns (urgency, confidence) for a category. It never fails:
// store errors are logged and degrade to the neutral default. location is
// accepted for interface stability; the statistics are category-wide.
func (e *Estimator) Estimate(ctx context.Context, location string, category models.Category) (float64, float64) {
	stats, err := e.source.UrgencyStats(ctx, models.NormalizeCategory(string(category)))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("category", string(category)).
			Str("location", location).
			Msg("Urgency statistics unavailable, using default")
		return DefaultUrgency, DefaultConfidence
	}

	mean, ok := blend(stats)
	if !ok {
		return DefaultUrgency, DefaultConfidence
	}

	return clamp(mean + e.noise()), DataConfidence
}

// blend weights open needs 0.7 and fulfilled history 0.3. With no
// fulfilled history the open mean stands alone. A category with only
// fulfilled history contributes its weighted share against an open mean
// of zero, which keeps long-served categories near the floor.
func blend(s models.UrgencyStats) (float64, bool) {
	var open, fulfilled float64
	if s.OpenCount > 0 {
		open = s.OpenMean
	}
	if s.FulfilledCount > 0 {
		fulfilled = s.FulfilledMean
	}

	combined := open
	if fulfilled > 0 {
		combined = openWeight*open + fulfilledWeight*fulfilled
	}
	return combined, combined > 0
}

func (e *Estimator) noise() float64 {
	if e.sigma <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.NormFloat64() * e.sigma
}

func clamp(v float64) float64 {
	if v < minEstimate {
		return minEstimate
	}
	if v > maxEstimate {
		return maxEstimate
	}
	return v
}
