// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package geocode

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/aidhub/internal/cache"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/metrics"
	"github.com/tomtom215/aidhub/internal/models"
)

// CachedGeocoder serves repeated lookups from memory, then disk, and
// collapses concurrent misses for the same key into one upstream call.
// Failures are never cached.
type CachedGeocoder struct {
	next   Geocoder
	memory *cache.LRU[models.Coordinates]
	disk   *DiskStore // optional
	group  singleflight.Group
}

// NewCachedGeocoder wraps next. disk may be nil.
func NewCachedGeocoder(next Geocoder, memory *cache.LRU[models.Coordinates], disk *DiskStore) *CachedGeocoder {
	return &CachedGeocoder{next: next, memory: memory, disk: disk}
}

// Geocode resolves location, consulting the cache tiers first.
func (c *CachedGeocoder) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	key := normalizeKey(location)
	if key == "" {
		return models.Coordinates{}, ErrLocationNotFound
	}

	if coords, ok := c.memory.Get(key); ok {
		metrics.GeocodeCacheHits.WithLabelValues("memory").Inc()
		return coords, nil
	}

	if c.disk != nil {
		coords, ok, err := c.disk.Get(key)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Geocode disk cache read failed")
		} else if ok {
			metrics.GeocodeCacheHits.WithLabelValues("disk").Inc()
			c.memory.Add(key, coords)
			return coords, nil
		}
	}

	metrics.GeocodeCacheMisses.Inc()

	// The shared lookup must outlive any single caller; the provider's
	// client timeout bounds it.
	upstream := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		coords, err := c.next.Geocode(upstream, location)
		if err != nil {
			return models.Coordinates{}, err
		}
		c.memory.Add(key, coords)
		if c.disk != nil {
			if err := c.disk.Put(key, coords); err != nil {
				logging.Ctx(upstream).Warn().Err(err).Str("key", key).Msg("Geocode disk cache write failed")
			}
		}
		return coords, nil
	})

	select {
	case <-ctx.Done():
		return models.Coordinates{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Coordinates{}, res.Err
		}
		return res.Val.(models.Coordinates), nil
	}
}
