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
)

// ErrorKind classifies failures for the HTTP layer.
type ErrorKind int

const (
	// KindInternal is an unexpected store or modelling failure.
	KindInternal ErrorKind = iota
	// KindValidation is missing or malformed input.
	KindValidation
	// KindNotFound is a missing record or an empty result.
	KindNotFound
	// KindTransient is a geocoder or network failure. It surfaces as a
	// client error because the caller can fix the location and retry.
	KindTransient
)

// Error codes carried in API error bodies.
const (
	CodeMissingFields     = "MISSING_FIELDS"
	CodeMalformedInput    = "MALFORMED_INPUT"
	CodeRecipientNotFound = "RECIPIENT_NOT_FOUND"
	CodeInvalidLocation   = "INVALID_LOCATION"
	CodeNoMatch           = "NO_MATCH"
	CodeInternal          = "INTERNAL_ERROR"
)

// AppError is an error with a kind, a stable code and a client-safe message.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	// Fields lists offending input fields for MissingFields.
	Fields []string
	Err    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindTransient:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// MissingFields reports absent or empty required fields.
func MissingFields(fields ...string) *AppError {
	msg := "Missing required fields"
	if len(fields) > 0 {
		msg += ": " + strings.Join(fields, ", ")
	}
	return &AppError{Kind: KindValidation, Code: CodeMissingFields, Message: msg, Fields: fields}
}

// MalformedInput reports input that is present but unusable.
func MalformedInput(msg string, cause error) *AppError {
	return &AppError{Kind: KindValidation, Code: CodeMalformedInput, Message: msg, Err: cause}
}

// RecipientNotFound reports a recipient id with no open need.
func RecipientNotFound(id int64) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    CodeRecipientNotFound,
		Message: "Recipient not found",
		Err:     fmt.Errorf("recipient %d has no open need", id),
	}
}

// InvalidLocation reports a location the geocoder could not resolve.
func InvalidLocation(location string, cause error) *AppError {
	return &AppError{
		Kind:    KindTransient,
		Code:    CodeInvalidLocation,
		Message: "Invalid location",
		Err:     fmt.Errorf("resolve %q: %w", location, cause),
	}
}

// NoMatch reports an empty candidate set for a category.
func NoMatch(category Category) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    CodeNoMatch,
		Message: "No matching recipients found",
		Err:     fmt.Errorf("no open needs for category %q", category),
	}
}

// Internal wraps an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{Kind: KindInternal, Code: CodeInternal, Message: "Internal server error", Err: cause}
}

// AsAppError classifies err. Errors that are not an *AppError become Internal.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
