// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var errInvalidRecipientID = errors.New("recipient_id must be an integer")

// RecipientsQuery holds GET /api/recipients parameters.
type RecipientsQuery struct {
	Type     string `json:"type" validate:"notblank,category"`
	Location string `json:"location" validate:"notblank"`
}

// AddRecipientRequest is the body of POST /api/add_recipient.
type AddRecipientRequest struct {
	Name         string `json:"name" validate:"notblank"`
	Location     string `json:"location" validate:"notblank"`
	DonationType string `json:"donation_type" validate:"notblank,category"`
	Contact      string `json:"contact" validate:"notblank"`
}

// DonateRequest is the body of POST /api/donate.
//
// RecipientID accepts a JSON number or a numeric string; it is parsed by
// parseRecipientID after presence checks.
type DonateRequest struct {
	DonorName      string          `json:"donor_name" validate:"notblank"`
	DonorContact   string          `json:"donor_contact" validate:"notblank"`
	DonationType   string          `json:"donation_type" validate:"notblank,category"`
	DonorLocation  string          `json:"donor_location" validate:"notblank"`
	PickupLocation string          `json:"pickup_location" validate:"notblank"`
	RecipientID    json.RawMessage `json:"recipient_id"`
	ClassifiedType string          `json:"classified_type,omitempty"`
	Description    string          `json:"description,omitempty"`
}

// parseRecipientID decodes a recipient id. present is false for an absent,
// null or blank value.
func parseRecipientID(raw json.RawMessage) (id int64, present bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, true, errInvalidRecipientID
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, false, nil
		}
	}

	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return id, true, nil
	}
	// Integral floats such as 3.0 are accepted.
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
		return 0, true, errInvalidRecipientID
	}
	return int64(f), true, nil
}
