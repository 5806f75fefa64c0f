// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Category
	}{
		{"Food", "food"},
		{"  CLOTHES ", "clothes"},
		{"school_supplies", "school_supplies"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryDisplay(t *testing.T) {
	t.Parallel()

	tests := map[Category]string{
		"food":            "Food",
		"school_supplies": "School_supplies",
		"BOOKS":           "Books",
		"":                "",
	}
	for in, want := range tests {
		if got := in.Display(); got != want {
			t.Errorf("%q.Display() = %q, want %q", in, got, want)
		}
	}
}

func TestClampUrgency(t *testing.T) {
	t.Parallel()

	for in, want := range map[float64]float64{0: 1, 1: 1, 3.3: 3.3, 5: 5, 9: 5} {
		if got := ClampUrgency(in); got != want {
			t.Errorf("ClampUrgency(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestAppErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    *AppError
		status int
		code   string
	}{
		{"missing", MissingFields("donor_name"), http.StatusBadRequest, CodeMissingFields},
		{"malformed", MalformedInput("bad id", nil), http.StatusBadRequest, CodeMalformedInput},
		{"not found", RecipientNotFound(7), http.StatusNotFound, CodeRecipientNotFound},
		{"invalid location", InvalidLocation("nowhere", errors.New("timeout")), http.StatusBadRequest, CodeInvalidLocation},
		{"no match", NoMatch("food"), http.StatusNotFound, CodeNoMatch},
		{"internal", Internal(errors.New("disk")), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.HTTPStatus(); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
		})
	}
}

func TestMissingFieldsMessage(t *testing.T) {
	t.Parallel()

	err := MissingFields("donor_name", "recipient_id")
	if !strings.Contains(err.Message, "donor_name, recipient_id") {
		t.Errorf("message should list fields, got %q", err.Message)
	}
}

func TestAsAppError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("match: %w", RecipientNotFound(3))
	if got := AsAppError(wrapped); got.Code != CodeRecipientNotFound {
		t.Errorf("AsAppError(wrapped) code = %q", got.Code)
	}
	if got := AsAppError(errors.New("boom")); got.Kind != KindInternal {
		t.Errorf("plain error should be internal, got %v", got.Kind)
	}
	if AsAppError(nil) != nil {
		t.Error("AsAppError(nil) should be nil")
	}
	if !IsKind(wrapped, KindNotFound) {
		t.Error("IsKind should see through wrapping")
	}
}

func TestRankedCandidateJSONFlattensRecord(t *testing.T) {
	t.Parallel()

	c := RankedCandidate{
		NeedRecord: NeedRecord{ID: 4, Name: "Ana", Category: "food", Urgency: 4},
		Distance:   1.5,
		Confidence: 0.7,
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"id", "name", "donation_type", "urgency", "distance", "confidence"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := m["predicted_urgency"]; ok {
		t.Errorf("predicted_urgency should be omitted when nil: %s", data)
	}
}
