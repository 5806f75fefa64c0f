// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package geocode resolves free-text locations to coordinates.
//
// The production chain is CachedGeocoder -> BreakerGeocoder -> Nominatim:
// an in-memory LRU and an optional BadgerDB tier in front of a rate
// limited, circuit-broken HTTP client.
package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/tomtom215/aidhub/internal/models"
)

// ErrLocationNotFound is returned when the provider has no result.
var ErrLocationNotFound = errors.New("location not found")

// Geocoder resolves a location string to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (models.Coordinates, error)
}

// GeocoderFunc adapts a function to the Geocoder interface.
type GeocoderFunc func(ctx context.Context, location string) (models.Coordinates, error)

// Geocode calls f.
func (f GeocoderFunc) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	return f(ctx, location)
}

// normalizeKey folds case and whitespace so "  Manila " and "manila" share
// a cache entry.
func normalizeKey(location string) string {
	return strings.Join(strings.Fields(strings.ToLower(location)), " ")
}
