// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package textmatch suggests donation categories from free-text descriptions.
package textmatch

import (
	"regexp"
	"strings"

	"github.com/tomtom215/aidhub/internal/models"
)

type rule struct {
	category models.Category
	pattern  *regexp.Regexp
}

// Patterns match substrings, so "shoes" hits "shoe" and "pens" hits "pen".
var rules = []rule{
	{"clothes", regexp.MustCompile(`cloth|shirt|pant|dress|jacket|shoe`)},
	{"food", regexp.MustCompile(`food|meal|grocery|fruit|vegetable`)},
	{"medicine", regexp.MustCompile(`medic|drug|pill|prescription`)},
	{"electronics", regexp.MustCompile(`electronic|phone|laptop|computer|device`)},
	{"books", regexp.MustCompile(`book|textbook|novel|magazine`)},
	{"toys", regexp.MustCompile(`toy|game|puzzle|doll`)},
	{"furniture", regexp.MustCompile(`furniture|chair|table|desk|bed`)},
	{"hygiene", regexp.MustCompile(`hygiene|soap|sanitizer|toothpaste`)},
	{"school_supplies", regexp.MustCompile(`school|pen|pencil|notebook|backpack`)},
}

// Match returns every category whose keywords appear in text, in a fixed
// category order. Matching is case-insensitive.
func Match(text string) []models.Category {
	lower := strings.ToLower(text)
	var out []models.Category
	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			out = append(out, r.category)
		}
	}
	return out
}
