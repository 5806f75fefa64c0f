// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/metrics"
	"github.com/tomtom215/aidhub/internal/models"
)

const providerNominatim = "nominatim"

// Nominatim queries an OpenStreetMap Nominatim search endpoint.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewNominatim builds a client from geocode config. A RateLimit <= 0
// disables outbound throttling.
func NewNominatim(cfg *config.GeocodeConfig) *Nominatim {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Nominatim{
		baseURL:   cfg.URL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Geocode returns the first search hit for location.
func (n *Nominatim) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return models.Coordinates{}, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	coords, err := n.search(ctx, location)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordGeocode(providerNominatim, "success", elapsed)
	case errors.Is(err, ErrLocationNotFound):
		metrics.RecordGeocode(providerNominatim, "not_found", elapsed)
	default:
		metrics.RecordGeocode(providerNominatim, "error", elapsed)
		logging.Ctx(ctx).Warn().Err(err).Str("location", location).Msg("Geocoding request failed")
	}
	return coords, err
}

func (n *Nominatim) search(ctx context.Context, location string) (models.Coordinates, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), http.NoBody)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return models.Coordinates{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&results); err != nil {
		return models.Coordinates{}, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return models.Coordinates{}, ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}
	return models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
