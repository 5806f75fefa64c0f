// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package training

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/aidhub/internal/metrics"
	"github.com/tomtom215/aidhub/internal/models"
	"github.com/tomtom215/aidhub/internal/training/regress"
	"github.com/tomtom215/aidhub/internal/training/storage"
)

const (
	trendMinRows    = 3
	trendMinBuckets = 3
)

// TrendModel maps a category to a linear model of daily request volume
// over (day_of_week, day_of_month, month).
type TrendModel struct {
	Models    map[string]*regress.Linear
	TrainedAt time.Time
}

// Forecast predicts the number of events for category on day. Negative
// predictions floor at zero.
func (m *TrendModel) Forecast(category models.Category, day time.Time) (float64, bool) {
	lin, ok := m.Models[string(models.NormalizeCategory(string(category)))]
	if !ok || lin == nil {
		return 0, false
	}
	dow, dom, month := calendarFeatures(day)
	v := lin.Predict([]float64{dow, dom, month})
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Max(0, v), true
}

// Categories lists the modelled categories in sorted order.
func (m *TrendModel) Categories() []string {
	out := make([]string, 0, len(m.Models))
	for c := range m.Models {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// TimelineSource supplies dated events across needs, fulfilled records and donations.
type TimelineSource interface {
	TimelineEvents(ctx context.Context) ([]models.TimelineEvent, error)
}

// TrendTrainer fits and persists the trend model.
type TrendTrainer struct {
	source TimelineSource
	store  *storage.Store
	path   string
	logger zerolog.Logger
	now    func() time.Time
}

// NewTrendTrainer creates a trainer writing to path.
func NewTrendTrainer(source TimelineSource, store *storage.Store, path string, logger zerolog.Logger) *TrendTrainer {
	return &TrendTrainer{
		source: source,
		store:  store,
		path:   path,
		logger: logger.With().Str("model", ModelTrend).Logger(),
		now:    time.Now,
	}
}

// Retrain fits one model per category with at least three daily buckets.
// It returns nil without writing when fewer than three events exist or on
// any error.
func (t *TrendTrainer) Retrain(ctx context.Context) *TrendModel {
	start := time.Now()
	model, skipped, err := t.train(ctx)
	switch {
	case err != nil:
		t.logger.Error().Err(err).Msg("Trend model training failed")
		metrics.RecordTraining(ModelTrend, "error", time.Since(start))
		return nil
	case skipped:
		t.logger.Warn().Msg("Not enough data to train trend model")
		metrics.RecordTraining(ModelTrend, "skipped", time.Since(start))
		return nil
	}
	metrics.RecordTraining(ModelTrend, "trained", time.Since(start))
	return model
}

type dayKey struct {
	category string
	date     time.Time
}

func (t *TrendTrainer) train(ctx context.Context) (*TrendModel, bool, error) {
	start := time.Now()

	events, err := t.source.TimelineEvents(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load timeline: %w", err)
	}
	if len(events) < trendMinRows {
		return nil, true, nil
	}

	counts := make(map[dayKey]int)
	for _, e := range events {
		ts := e.Timestamp.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		counts[dayKey{category: string(models.NormalizeCategory(string(e.Category))), date: day}]++
	}

	buckets := make(map[string][]dayKey)
	for k := range counts {
		buckets[k.category] = append(buckets[k.category], k)
	}

	model := &TrendModel{Models: make(map[string]*regress.Linear), TrainedAt: t.now().UTC()}
	for category, days := range buckets {
		if len(days) < trendMinBuckets {
			continue
		}
		sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

		X := make([][]float64, len(days))
		y := make([]float64, len(days))
		for i, k := range days {
			dow, dom, month := calendarFeatures(k.date)
			X[i] = []float64{dow, dom, month}
			y[i] = float64(counts[k])
		}

		lin := &regress.Linear{}
		if err := lin.Fit(X, y); err != nil {
			t.logger.Warn().Err(err).Str("category", category).Msg("Skipping trend category")
			continue
		}
		model.Models[category] = lin
	}

	meta := storage.Metadata{
		Name:               ModelTrend,
		Family:             FamilyLinear,
		Rows:               len(events),
		TrainedAt:          model.TrainedAt,
		TrainingDurationMS: time.Since(start).Milliseconds(),
	}
	if err := t.store.Save(t.path, model, meta); err != nil {
		return nil, false, fmt.Errorf("save trend model: %w", err)
	}

	t.logger.Info().Int("events", len(events)).Strs("categories", model.Categories()).
		Msg("Trend models saved")
	return model, false, nil
}
