// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidhub_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aidhub_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aidhub_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Geocoding
	GeocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidhub_geocode_requests_total",
			Help: "Outbound geocoding lookups by provider and result",
		},
		[]string{"provider", "result"}, // result: "success", "not_found", "error", "rejected"
	)

	GeocodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aidhub_geocode_duration_seconds",
			Help:    "Outbound geocoding latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	GeocodeCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidhub_geocode_cache_hits_total",
			Help: "Geocode cache hits by tier",
		},
		[]string{"tier"}, // "memory", "disk"
	)

	GeocodeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aidhub_geocode_cache_misses_total",
			Help: "Geocode lookups not served from any cache tier",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aidhub_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidhub_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Matching
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidhub_matches_total",
			Help: "Donation match attempts by result",
		},
		[]string{"result"}, // "success", "not_found", "error"
	)

	// Training
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidhub_training_runs_total",
			Help: "Model training runs by model and result",
		},
		[]string{"model", "result"}, // result: "trained", "skipped", "error"
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aidhub_training_duration_seconds",
			Help:    "Model training duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"model"},
	)

	TrainingJobsCoalesced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidhub_training_jobs_coalesced_total",
			Help: "Retrain jobs dropped because a newer run already covered them",
		},
		[]string{"model"},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aidhub_info",
			Help: "Build information",
		},
		[]string{"version", "commit"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordGeocode records one outbound provider lookup.
func RecordGeocode(provider, result string, duration time.Duration) {
	GeocodeRequests.WithLabelValues(provider, result).Inc()
	if duration > 0 {
		GeocodeDuration.Observe(duration.Seconds())
	}
}

// RecordTraining records the outcome of a training run.
func RecordTraining(model, result string, duration time.Duration) {
	TrainingRuns.WithLabelValues(model, result).Inc()
	TrainingDuration.WithLabelValues(model).Observe(duration.Seconds())
}
