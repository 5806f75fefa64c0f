// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package geocode

import (
	"github.com/tomtom215/aidhub/internal/cache"
	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/models"
)

// Service is the assembled production geocoder.
type Service struct {
	*CachedGeocoder
	breaker *BreakerGeocoder
	disk    *DiskStore
}

// New assembles cache, breaker and Nominatim client from config. When the
// disk cache cannot be opened the service runs memory-only.
func New(cfg *config.GeocodeConfig) *Service {
	breaker := NewBreakerGeocoder(NewNominatim(cfg), cfg)

	var disk *DiskStore
	if cfg.CachePath != "" {
		d, err := OpenDiskStore(cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.CachePath).Msg("Geocode disk cache disabled")
		} else {
			disk = d
		}
	}

	memory := cache.NewLRU[models.Coordinates](cfg.CacheSize, cfg.CacheTTL)
	return &Service{
		CachedGeocoder: NewCachedGeocoder(breaker, memory, disk),
		breaker:        breaker,
		disk:           disk,
	}
}

// BreakerState returns the provider breaker state as a string.
func (s *Service) BreakerState() string {
	return s.breaker.State().String()
}

// Close releases the disk cache.
func (s *Service) Close() error {
	if s.disk == nil {
		return nil
	}
	return s.disk.Close()
}
