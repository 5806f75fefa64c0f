// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"net/http"

	"github.com/tomtom215/aidhub/internal/models"
)

// breakerReporter is implemented by geocoders behind a circuit breaker.
// *geocode.Service satisfies it.
type breakerReporter interface {
	BreakerState() string
}

// Health handles GET /api/health. The status is "degraded" when the
// database does not answer a ping or the geocoder breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	resp := &models.HealthResponse{
		Status:   "healthy",
		Database: h.store != nil && h.store.Ping(ctx) == nil,
	}
	if br, ok := h.geocoder.(breakerReporter); ok {
		resp.Geocoder = br.BreakerState()
	}
	if !resp.Database || resp.Geocoder == "open" {
		resp.Status = "degraded"
	}
	respondJSON(w, http.StatusOK, resp)
}
