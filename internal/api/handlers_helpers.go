// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/models"
	"github.com/tomtom215/aidhub/internal/validation"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log
// injection.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError classifies err and writes a models.APIError body. Internal
// errors are logged with the request context; their cause is not exposed.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := models.AsAppError(err)
	status := appErr.HTTPStatus()

	event := logging.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Str("code", appErr.Code).
		Str("path", r.URL.Path).
		Str("error", sanitizeLogValue(appErr.Error())).
		Msg("API error")

	body := &models.APIError{Error: appErr.Message, Code: appErr.Code}
	if len(appErr.Fields) > 0 {
		body.Details = map[string]interface{}{"fields": appErr.Fields}
	}
	respondJSON(w, status, body)
}

// decodeJSON reads a JSON body into dst. Any decode failure is reported as
// MalformedInput.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return models.MalformedInput("Request body is empty", err)
		}
		return models.MalformedInput("Request body is not valid JSON", err)
	}
	return nil
}

// validateRequest runs struct validation and maps presence failures to
// MissingFields and anything else to MalformedInput.
func validateRequest(v interface{}) error {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	if fields := verr.MissingFields(); len(fields) > 0 {
		return models.MissingFields(fields...)
	}
	return models.MalformedInput(verr.Error(), verr)
}
