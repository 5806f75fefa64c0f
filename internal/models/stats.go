// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package models

// UrgencyStats are per-category aggregates read by the urgency estimator.
// A Count of zero means the corresponding mean is undefined.
type UrgencyStats struct {
	OpenCount      int
	OpenMean       float64
	FulfilledCount int
	FulfilledMean  float64
}

// CategoryCount is a category with its open request count.
type CategoryCount struct {
	Category Category
	Count    int
}

// CategoryStats aggregates fulfilled records of one category.
type CategoryStats struct {
	Category   Category
	Count      int
	AvgUrgency float64
}

// SummaryStats are headline totals.
type SummaryStats struct {
	TotalDonations    int `json:"total_donations"`
	UniqueDonors      int `json:"unique_donors"`
	CommunitiesServed int `json:"communities_served"`
}
