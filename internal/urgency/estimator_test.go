// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package urgency

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/tomtom215/aidhub/internal/models"
)

type fakeStats struct {
	stats map[models.Category]models.UrgencyStats
	err   error
}

func (f fakeStats) UrgencyStats(_ context.Context, c models.Category) (models.UrgencyStats, error) {
	if f.err != nil {
		return models.UrgencyStats{}, f.err
	}
	return f.stats[c], nil
}

func TestEstimate_NoNoise(t *testing.T) {
	t.Parallel()

	source := fakeStats{stats: map[models.Category]models.UrgencyStats{
		"food":     {OpenCount: 2, OpenMean: 4, FulfilledCount: 3, FulfilledMean: 2},
		"books":    {OpenCount: 1, OpenMean: 3.5},
		"toys":     {FulfilledCount: 4, FulfilledMean: 2.5},
		"blankets": {OpenCount: 1, OpenMean: 1},
		"tents":    {OpenCount: 1, OpenMean: 5, FulfilledCount: 1, FulfilledMean: 5},
	}}

	tests := []struct {
		name           string
		category       models.Category
		wantUrgency    float64
		wantConfidence float64
	}{
		{"weighted blend", "food", 0.7*4 + 0.3*2, DataConfidence},
		{"open only", "books", 3.5, DataConfidence},
		{"fulfilled only weighs against empty open set", "toys", 1.5, DataConfidence},
		{"clamped low", "blankets", 1.5, DataConfidence},
		{"at ceiling", "tents", 5, DataConfidence},
		{"no data", "unknown", DefaultUrgency, DefaultConfidence},
		{"category normalized", " FOOD ", 0.7*4 + 0.3*2, DataConfidence},
	}

	e := NewEstimator(source, 0, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, c := e.Estimate(context.Background(), "Manila", tt.category)
			if math.Abs(u-tt.wantUrgency) > 1e-9 || c != tt.wantConfidence {
				t.Errorf("Estimate = (%v, %v), want (%v, %v)", u, c, tt.wantUrgency, tt.wantConfidence)
			}
		})
	}
}

func TestEstimate_NoDataIsExactDefault(t *testing.T) {
	t.Parallel()

	e := NewEstimator(fakeStats{}, 0.3, rand.New(rand.NewSource(1)))
	for i := 0; i < 20; i++ {
		u, c := e.Estimate(context.Background(), "anywhere", "food")
		if u != 3.0 || c != 0.5 {
			t.Fatalf("Estimate = (%v, %v), want (3, 0.5)", u, c)
		}
	}
}

func TestEstimate_StoreErrorDegrades(t *testing.T) {
	t.Parallel()

	e := NewEstimator(fakeStats{err: errors.New("database closed")}, 0.3, nil)
	u, c := e.Estimate(context.Background(), "Manila", "food")
	if u != DefaultUrgency || c != DefaultConfidence {
		t.Errorf("Estimate = (%v, %v), want default", u, c)
	}
}

func TestEstimate_NoiseStaysInRange(t *testing.T) {
	t.Parallel()

	source := fakeStats{stats: map[models.Category]models.UrgencyStats{
		"food": {OpenCount: 1, OpenMean: 4.9},
		"wood": {OpenCount: 1, OpenMean: 1.6},
	}}
	e := NewEstimator(source, 0.3, rand.New(rand.NewSource(42)))

	var distinct = map[float64]bool{}
	for i := 0; i < 200; i++ {
		for _, c := range []models.Category{"food", "wood"} {
			u, conf := e.Estimate(context.Background(), "x", c)
			if u < minEstimate || u > maxEstimate {
				t.Fatalf("urgency %v out of [1.5, 5]", u)
			}
			if conf != DataConfidence {
				t.Fatalf("confidence = %v", conf)
			}
			distinct[u] = true
		}
	}
	if len(distinct) < 10 {
		t.Errorf("expected jittered scores, got %d distinct values", len(distinct))
	}
}
