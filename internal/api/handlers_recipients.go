// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/models"
)

// Recipients handles GET /api/recipients?type=&location=.
// It returns open needs of the category ranked for the donor location.
func (h *Handler) Recipients(w http.ResponseWriter, r *http.Request) {
	q := RecipientsQuery{
		Type:     r.URL.Query().Get("type"),
		Location: r.URL.Query().Get("location"),
	}
	if err := validateRequest(&q); err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	location := strings.TrimSpace(q.Location)
	result, err := h.ranker.Rank(ctx, location, models.NormalizeCategory(q.Type))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.RecipientsResponse{
		Recipients:       result.Candidates,
		DonorCoordinates: result.DonorCoordinates,
		DonorLocation:    location,
	})
}

// AddRecipient handles POST /api/add_recipient. The location is geocoded,
// the urgency estimated, and the need stored; retraining is then enqueued.
func (h *Handler) AddRecipient(w http.ResponseWriter, r *http.Request) {
	var req AddRecipientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	location := strings.TrimSpace(req.Location)
	coords, err := h.geocoder.Geocode(ctx, location)
	if err != nil {
		respondError(w, r, models.InvalidLocation(location, err))
		return
	}

	category := models.NormalizeCategory(req.DonationType)
	urgency, confidence := h.estimator.Estimate(ctx, location, category)

	need, err := h.store.CreateNeed(ctx, &models.NewNeed{
		Name:      strings.TrimSpace(req.Name),
		Location:  location,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Category:  category,
		Urgency:   urgency,
		Contact:   strings.TrimSpace(req.Contact),
	})
	if err != nil {
		respondError(w, r, models.Internal(err))
		return
	}

	logging.Ctx(ctx).Info().
		Int64("need_id", need.ID).
		Str("category", string(need.Category)).
		Float64("urgency", need.Urgency).
		Msg("Recipient added")

	h.scheduleRetrain(r.Context(), "add_recipient")

	respondJSON(w, http.StatusOK, &models.AddRecipientResponse{
		Success: true,
		Message: fmt.Sprintf("Recipient added successfully! Urgency level %.2f/5.0 (confidence: %.2f%%)",
			need.Urgency, confidence*100),
		ID:         need.ID,
		Urgency:    need.Urgency,
		Confidence: confidence,
	})
}
