// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package training fits the urgency and trend models from the record store,
// persists them as artifacts, and serves predictions from the latest
// artifact on disk.
package training

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/aidhub/internal/models"
	"github.com/tomtom215/aidhub/internal/training/storage"
)

// Model names used for metrics, logging and retrain routing.
const (
	ModelUrgency = "urgency"
	ModelTrend   = "trend"
)

// ModelService loads artifacts lazily and caches them until invalidated.
// Missing or unreadable artifacts are remembered as absent so predictions
// fail soft without touching disk on every call.
type ModelService struct {
	store       *storage.Store
	urgencyPath string
	trendPath   string
	logger      zerolog.Logger

	mu            sync.RWMutex
	urgency       *UrgencyModel
	urgencyLoaded bool
	trend         *TrendModel
	trendLoaded   bool
}

// NewModelService creates a service reading the two artifact paths.
func NewModelService(store *storage.Store, urgencyPath, trendPath string, logger zerolog.Logger) *ModelService {
	return &ModelService{
		store:       store,
		urgencyPath: urgencyPath,
		trendPath:   trendPath,
		logger:      logger,
	}
}

// PredictUrgency returns the trained model's urgency for an observation.
// ok is false when no usable urgency artifact exists.
func (s *ModelService) PredictUrgency(lat, lon float64, category models.Category, ts time.Time) (float64, bool) {
	m := s.urgencyModel()
	if m == nil {
		return 0, false
	}
	return m.Predict(lat, lon, category, ts)
}

// ForecastTrend returns the predicted event count for category on day.
func (s *ModelService) ForecastTrend(category models.Category, day time.Time) (float64, bool) {
	m := s.trendModel()
	if m == nil {
		return 0, false
	}
	return m.Forecast(category, day)
}

// Invalidate drops the cached copy of model so the next call reloads it.
func (s *ModelService) Invalidate(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch model {
	case ModelUrgency:
		s.urgency, s.urgencyLoaded = nil, false
	case ModelTrend:
		s.trend, s.trendLoaded = nil, false
	}
}

// RemoveArtifacts deletes both artifact files and clears the cache.
func (s *ModelService) RemoveArtifacts() error {
	errU := s.store.Remove(s.urgencyPath)
	errT := s.store.Remove(s.trendPath)
	s.Invalidate(ModelUrgency)
	s.Invalidate(ModelTrend)
	return errors.Join(errU, errT)
}

func (s *ModelService) urgencyModel() *UrgencyModel {
	s.mu.RLock()
	if s.urgencyLoaded {
		m := s.urgency
		s.mu.RUnlock()
		return m
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.urgencyLoaded {
		var m UrgencyModel
		if s.load(s.urgencyPath, ModelUrgency, &m) {
			s.urgency = &m
		}
		s.urgencyLoaded = true
	}
	return s.urgency
}

func (s *ModelService) trendModel() *TrendModel {
	s.mu.RLock()
	if s.trendLoaded {
		m := s.trend
		s.mu.RUnlock()
		return m
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.trendLoaded {
		var m TrendModel
		if s.load(s.trendPath, ModelTrend, &m) {
			s.trend = &m
		}
		s.trendLoaded = true
	}
	return s.trend
}

func (s *ModelService) load(path, name string, target interface{}) bool {
	meta, err := s.store.Load(path, target)
	if errors.Is(err, storage.ErrModelNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("model", name).Str("path", path).Msg("Model artifact unusable")
		return false
	}
	s.logger.Debug().Str("model", name).Str("family", meta.Family).Time("trained_at", meta.TrainedAt).
		Msg("Model artifact loaded")
	return true
}
