// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package training

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/aidhub/internal/metrics"
	"github.com/tomtom215/aidhub/internal/models"
	"github.com/tomtom215/aidhub/internal/training/regress"
	"github.com/tomtom215/aidhub/internal/training/storage"
)

// Model families, chosen by training set size.
const (
	FamilyKNN    = "knn"
	FamilyLinear = "linear"
	FamilyForest = "random_forest"
)

const (
	linearMinRows = 5
	forestMinRows = 15
	forestTrees   = 100
	testFraction  = 0.2
)

// UrgencyModel is the persisted urgency artifact. Exactly one of KNN,
// Linear and Forest is set, according to Family.
type UrgencyModel struct {
	Family          string
	Features        FeatureSpace
	NumericFeatures []string
	Scaler          regress.StandardScaler

	KNN    *regress.KNN
	Linear *regress.Linear
	Forest *regress.Forest

	Rows      int
	TrainedAt time.Time
}

func (m *UrgencyModel) regressor() regress.Regressor {
	switch m.Family {
	case FamilyKNN:
		return m.KNN
	case FamilyLinear:
		return m.Linear
	case FamilyForest:
		return m.Forest
	}
	return nil
}

// Predict returns the model's urgency for an observation, clamped to [1, 5].
func (m *UrgencyModel) Predict(lat, lon float64, category models.Category, ts time.Time) (float64, bool) {
	r := m.regressor()
	if r == nil {
		return 0, false
	}
	x := m.Scaler.Transform(m.Features.Vector(lat, lon, category, ts))
	v := r.Predict(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return models.ClampUrgency(v), true
}

// RowSource supplies urgency observations.
type RowSource interface {
	TrainingRows(ctx context.Context) ([]models.TrainingRow, error)
}

// UrgencyTrainer fits and persists the urgency model.
type UrgencyTrainer struct {
	source RowSource
	store  *storage.Store
	path   string
	seed   int64
	logger zerolog.Logger
	now    func() time.Time
}

// NewUrgencyTrainer creates a trainer writing to path.
func NewUrgencyTrainer(source RowSource, store *storage.Store, path string, seed int64, logger zerolog.Logger) *UrgencyTrainer {
	return &UrgencyTrainer{
		source: source,
		store:  store,
		path:   path,
		seed:   seed,
		logger: logger.With().Str("model", ModelUrgency).Logger(),
		now:    time.Now,
	}
}

// Retrain fits a model on the current records and saves it. It never
// fails: errors are logged and nil is returned, as it is when there is no
// data to train on.
func (t *UrgencyTrainer) Retrain(ctx context.Context) *UrgencyModel {
	start := time.Now()
	model, err := t.train(ctx)
	switch {
	case errors.Is(err, regress.ErrNoData):
		t.logger.Warn().Msg("No data available to train the urgency model")
		metrics.RecordTraining(ModelUrgency, "skipped", time.Since(start))
		return nil
	case err != nil:
		t.logger.Error().Err(err).Msg("Urgency model training failed")
		metrics.RecordTraining(ModelUrgency, "error", time.Since(start))
		return nil
	}
	metrics.RecordTraining(ModelUrgency, "trained", time.Since(start))
	return model
}

func (t *UrgencyTrainer) train(ctx context.Context) (*UrgencyModel, error) {
	start := time.Now()

	rows, err := t.source.TrainingRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load training rows: %w", err)
	}
	if len(rows) < 1 {
		return nil, regress.ErrNoData
	}

	fs := NewFeatureSpace(rows)
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		X[i] = fs.Vector(r.Latitude, r.Longitude, r.Category, r.Timestamp)
		y[i] = r.Urgency
	}

	model := &UrgencyModel{
		Features:        fs,
		NumericFeatures: append([]string(nil), NumericFeatures...),
		Rows:            len(rows),
		TrainedAt:       t.now().UTC(),
	}
	if err := model.Scaler.Fit(X, fs.NumericColumns()); err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	Xs := model.Scaler.TransformAll(X)

	var fitter interface {
		regress.Regressor
		Fit([][]float64, []float64) error
	}
	switch n := len(rows); {
	case n < linearMinRows:
		model.Family = FamilyKNN
		model.KNN = regress.NewKNN(min(3, n))
		fitter = model.KNN
	case n < forestMinRows:
		model.Family = FamilyLinear
		model.Linear = &regress.Linear{}
		fitter = model.Linear
	default:
		model.Family = FamilyForest
		model.Forest = regress.NewForest(forestTrees, t.seed)
		fitter = model.Forest
	}

	meta := storage.Metadata{Name: ModelUrgency, Family: model.Family, Rows: len(rows), TrainedAt: model.TrainedAt}

	if len(rows) >= linearMinRows {
		rng := rand.New(rand.NewSource(t.seed)) //nolint:gosec // reproducible split
		trainIdx, testIdx := regress.TrainTestSplit(len(rows), testFraction, rng)
		Xtr, ytr := regress.Rows(Xs, y, trainIdx)
		Xte, yte := regress.Rows(Xs, y, testIdx)
		if err := fitter.Fit(Xtr, ytr); err != nil {
			return nil, fmt.Errorf("fit %s: %w", model.Family, err)
		}
		score := regress.Score(fitter, Xte, yte)
		if !math.IsNaN(score) {
			meta.Score, meta.HasScore = score, true
		}
		t.logger.Info().Float64("r2", score).Int("train_rows", len(trainIdx)).Int("test_rows", len(testIdx)).
			Msg("Urgency model held-out score")
	} else if err := fitter.Fit(Xs, y); err != nil {
		return nil, fmt.Errorf("fit %s: %w", model.Family, err)
	}

	meta.TrainingDurationMS = time.Since(start).Milliseconds()
	if err := t.store.Save(t.path, model, meta); err != nil {
		return nil, fmt.Errorf("save urgency model: %w", err)
	}

	t.logger.Info().Int("rows", len(rows)).Str("family", model.Family).
		Strs("categories", fs.Vocabulary).Msg("Urgency model saved")
	return model, nil
}
