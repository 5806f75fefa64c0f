// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package models

import "time"

// APIError is the body of every non-2xx response:
//
//	{"error": "Recipient not found", "code": "RECIPIENT_NOT_FOUND"}
type APIError struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RankedCandidate is an open need annotated for a specific donor.
type RankedCandidate struct {
	NeedRecord
	// Distance is the geodesic distance to the donor in kilometres.
	Distance float64 `json:"distance"`
	// Confidence comes from the urgency estimator, not the stored urgency.
	Confidence float64 `json:"confidence"`
	// PredictedUrgency is the trained model's estimate, when a model exists.
	PredictedUrgency *float64 `json:"predicted_urgency,omitempty"`
}

// RecipientsResponse is returned by GET /api/recipients.
type RecipientsResponse struct {
	Recipients       []RankedCandidate `json:"recipients"`
	DonorCoordinates Coordinates       `json:"donor_coordinates"`
	DonorLocation    string            `json:"donor_location"`
}

// DonateResponse is returned by POST /api/donate.
type DonateResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	PickupLocation   string   `json:"pickup_location"`
	DonorContact     string   `json:"donor_contact"`
	RecipientContact string   `json:"recipient_contact"`
	RecipientName    string   `json:"recipient_name"`
	SuggestedTypes   []string `json:"suggested_types,omitempty"`
}

// AddRecipientResponse is returned by POST /api/add_recipient.
type AddRecipientResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	ID         int64   `json:"id"`
	Urgency    float64 `json:"urgency"`
	Confidence float64 `json:"confidence"`
}

// HistoryTransaction is one fulfilled record as listed by GET /api/history.
type HistoryTransaction struct {
	RecipientName    string    `json:"recipient_name"`
	Location         string    `json:"location"`
	DonationType     Category  `json:"donation_type"`
	DonorName        string    `json:"donor_name"`
	RecipientContact string    `json:"recipient_contact"`
	DonorContact     string    `json:"donor_contact"`
	PickupLocation   string    `json:"pickup_location"`
	Date             time.Time `json:"date"`
}

// HistoryTypeStat is a per-category aggregate of fulfilled records.
type HistoryTypeStat struct {
	DonationType string  `json:"donation_type"`
	Count        int     `json:"count"`
	AvgUrgency   float64 `json:"avg_urgency"`
}

// HistoryResponse is returned by GET /api/history.
type HistoryResponse struct {
	Transactions []HistoryTransaction `json:"transactions"`
	TypeStats    []HistoryTypeStat    `json:"type_stats"`
	Error        string               `json:"error,omitempty"`
}

// Trend is one entry of GET /api/trending.
type Trend struct {
	Type    string `json:"type"`
	Count   int    `json:"count"`
	Message string `json:"message"`
	// Forecast is the predicted request count for the next day.
	Forecast *float64 `json:"forecast,omitempty"`
}

// TrendingResponse is returned by GET /api/trending.
type TrendingResponse struct {
	Message string  `json:"message"`
	Trends  []Trend `json:"trends"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	// Geocoder is the provider circuit breaker state, when one is wired.
	Geocoder string `json:"geocoder,omitempty"`
}
