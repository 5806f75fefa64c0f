// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package models defines the record types, aggregates, error taxonomy and
// HTTP payloads shared across Aidhub packages.
package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is an open-ended donation category ("food", "clothes", ...).
// Values are normalized to lowercase at write time; there is no closed set.
type Category string

// NormalizeCategory trims and lowercases a free-text category.
func NormalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// IsZero reports whether the category is empty.
func (c Category) IsZero() bool {
	return c == ""
}

// Display returns the category with its first letter upper-cased and the
// rest lower-cased, the way summaries present it ("Food", "School_supplies").
func (c Category) Display() string {
	s := strings.ToLower(string(c))
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
