// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package geocode

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/metrics"
	"github.com/tomtom215/aidhub/internal/models"
)

// BreakerGeocoder stops calling the provider after repeated failures.
// A "not found" answer counts as a success: the provider is healthy.
type BreakerGeocoder struct {
	next Geocoder
	cb   *gobreaker.CircuitBreaker[models.Coordinates]
	name string
}

// NewBreakerGeocoder wraps next with a consecutive-failure breaker.
func NewBreakerGeocoder(next Geocoder, cfg *config.GeocodeConfig) *BreakerGeocoder {
	const name = "geocoder"
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[models.Coordinates](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrLocationNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerGeocoder{next: next, cb: cb, name: name}
}

// Geocode calls the wrapped geocoder unless the circuit is open.
func (b *BreakerGeocoder) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	coords, err := b.cb.Execute(func() (models.Coordinates, error) {
		return b.next.Geocode(ctx, location)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordGeocode(providerNominatim, "rejected", 0)
	}
	return coords, err
}

// State reports the breaker state, for health output.
func (b *BreakerGeocoder) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
