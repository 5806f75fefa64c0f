// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestParseRecipientID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		id      int64
		present bool
		wantErr bool
	}{
		{raw: "", present: false},
		{raw: "null", present: false},
		{raw: `""`, present: false},
		{raw: `"   "`, present: false},
		{raw: "7", id: 7, present: true},
		{raw: " 12 ", id: 12, present: true},
		{raw: "3.0", id: 3, present: true},
		{raw: `"42"`, id: 42, present: true},
		{raw: `" 5 "`, id: 5, present: true},
		{raw: "-1", id: -1, present: true},
		{raw: "1.5", present: true, wantErr: true},
		{raw: `"abc"`, present: true, wantErr: true},
		{raw: "true", present: true, wantErr: true},
		{raw: "[1]", present: true, wantErr: true},
		{raw: "1e300", present: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			id, present, err := parseRecipientID(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if present != tt.present {
				t.Errorf("present = %v, want %v", present, tt.present)
			}
			if !tt.wantErr && id != tt.id {
				t.Errorf("id = %d, want %d", id, tt.id)
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\tc\x7f"); got != `a\x0ab\x09c\x7f` {
		t.Errorf("sanitizeLogValue = %q", got)
	}
	if got := sanitizeLogValue("Manila, PH"); got != "Manila, PH" {
		t.Errorf("sanitizeLogValue changed printable text: %q", got)
	}
}
