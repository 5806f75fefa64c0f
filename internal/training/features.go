// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package training

import (
	"sort"
	"time"

	"github.com/tomtom215/aidhub/internal/models"
)

// NumericFeatures are the standardized columns of the urgency feature vector.
var NumericFeatures = []string{"latitude", "longitude", "day_of_week", "day_of_month", "month"}

// FeatureSpace lays out the urgency feature vector:
//
//	[latitude, longitude, type_<c1>, ..., type_<cN>, day_of_week, day_of_month, month]
//
// Vocabulary is sorted. A category outside the vocabulary encodes as all zeros.
type FeatureSpace struct {
	Vocabulary []string
}

// NewFeatureSpace builds the vocabulary from the distinct categories in rows.
func NewFeatureSpace(rows []models.TrainingRow) FeatureSpace {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[string(models.NormalizeCategory(string(r.Category)))] = struct{}{}
	}
	vocab := make([]string, 0, len(seen))
	for c := range seen {
		vocab = append(vocab, c)
	}
	sort.Strings(vocab)
	return FeatureSpace{Vocabulary: vocab}
}

// Width is the length of a feature vector.
func (fs FeatureSpace) Width() int {
	return 2 + len(fs.Vocabulary) + 3
}

// NumericColumns returns the vector indices of NumericFeatures.
func (fs FeatureSpace) NumericColumns() []int {
	base := 2 + len(fs.Vocabulary)
	return []int{0, 1, base, base + 1, base + 2}
}

// Vector encodes one observation.
func (fs FeatureSpace) Vector(lat, lon float64, category models.Category, ts time.Time) []float64 {
	x := make([]float64, fs.Width())
	x[0] = lat
	x[1] = lon

	c := string(models.NormalizeCategory(string(category)))
	if i := sort.SearchStrings(fs.Vocabulary, c); i < len(fs.Vocabulary) && fs.Vocabulary[i] == c {
		x[2+i] = 1
	}

	base := 2 + len(fs.Vocabulary)
	dow, dom, month := calendarFeatures(ts)
	x[base] = dow
	x[base+1] = dom
	x[base+2] = month
	return x
}

// calendarFeatures returns day of week (Monday = 0), day of month and month
// of ts in UTC.
func calendarFeatures(ts time.Time) (dow, dom, month float64) {
	ts = ts.UTC()
	return float64((int(ts.Weekday()) + 6) % 7), float64(ts.Day()), float64(ts.Month())
}
