// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/aidhub/internal/database"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/metrics"
	"github.com/tomtom215/aidhub/internal/models"
	"github.com/tomtom215/aidhub/internal/textmatch"
)

// Donate handles POST /api/donate: it fulfils the open need named by
// recipient_id in one transaction and then enqueues retraining.
//
// A concurrent donation that loses the race for the same recipient gets
// 404 RECIPIENT_NOT_FOUND.
func (h *Handler) Donate(w http.ResponseWriter, r *http.Request) {
	var req DonateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		metrics.MatchesTotal.WithLabelValues("invalid").Inc()
		respondError(w, r, err)
		return
	}

	match, err := buildMatchRequest(&req)
	if err != nil {
		metrics.MatchesTotal.WithLabelValues("invalid").Inc()
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	result, err := h.store.MatchDonation(ctx, match)
	switch {
	case errors.Is(err, database.ErrRecipientNotFound):
		metrics.MatchesTotal.WithLabelValues("not_found").Inc()
		respondError(w, r, models.RecipientNotFound(match.RecipientID))
		return
	case err != nil:
		metrics.MatchesTotal.WithLabelValues("error").Inc()
		respondError(w, r, models.Internal(err))
		return
	}
	metrics.MatchesTotal.WithLabelValues("matched").Inc()

	logging.Ctx(ctx).Info().
		Int64("recipient_id", match.RecipientID).
		Int64("fulfilled_id", result.Fulfilled.ID).
		Int64("donation_id", result.Donation.ID).
		Str("category", string(result.Fulfilled.Category)).
		Msg("Donation matched")

	h.scheduleRetrain(r.Context(), "donate")

	respondJSON(w, http.StatusOK, &models.DonateResponse{
		Success:          true,
		Message:          fmt.Sprintf("Donation from %s to %s confirmed", match.DonorName, result.Fulfilled.Name),
		PickupLocation:   result.Fulfilled.PickupLocation,
		DonorContact:     result.Fulfilled.DonorContact,
		RecipientContact: result.Fulfilled.RecipientContact,
		RecipientName:    result.Fulfilled.Name,
		SuggestedTypes:   suggestedTypes(req.Description),
	})
}

// buildMatchRequest validates req and converts it to a MatchRequest.
// Missing fields are reported together, recipient_id included.
func buildMatchRequest(req *DonateRequest) (*models.MatchRequest, error) {
	var missing []string
	var malformed error
	if verr := validateRequest(req); verr != nil {
		appErr := models.AsAppError(verr)
		if appErr.Code == models.CodeMissingFields {
			missing = appErr.Fields
		} else {
			malformed = verr
		}
	}

	id, present, idErr := parseRecipientID(req.RecipientID)
	if !present {
		missing = append(missing, "recipient_id")
	}
	if len(missing) > 0 {
		return nil, models.MissingFields(missing...)
	}
	if malformed != nil {
		return nil, malformed
	}
	if idErr != nil {
		return nil, models.MalformedInput("Invalid recipient_id", idErr)
	}

	category := models.NormalizeCategory(req.DonationType)
	suggested := category
	if matches := textmatch.Match(req.Description); len(matches) > 0 {
		suggested = matches[0]
	}

	return &models.MatchRequest{
		RecipientID:    id,
		DonorName:      strings.TrimSpace(req.DonorName),
		DonorContact:   strings.TrimSpace(req.DonorContact),
		Category:       category,
		PickupLocation: strings.TrimSpace(req.PickupLocation),
		ClassifiedType: strings.TrimSpace(req.ClassifiedType),
		SuggestedType:  string(suggested),
	}, nil
}

func suggestedTypes(description string) []string {
	matches := textmatch.Match(description)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, c := range matches {
		out[i] = string(c)
	}
	return out
}
