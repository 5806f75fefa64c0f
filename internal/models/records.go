// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package models

import "time"

// Urgency bounds for stored needs.
const (
	MinUrgency = 1.0
	MaxUrgency = 5.0
)

// ClampUrgency limits u to [MinUrgency, MaxUrgency].
func ClampUrgency(u float64) float64 {
	if u < MinUrgency {
		return MinUrgency
	}
	if u > MaxUrgency {
		return MaxUrgency
	}
	return u
}

// NeedRecord is an open, unfulfilled request registered by a recipient.
// It is deleted when matched to a donation.
type NeedRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Category  Category  `json:"donation_type"`
	Urgency   float64   `json:"urgency"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"date_added"`
}

// FulfilledRecord is the immutable snapshot of a matched NeedRecord.
type FulfilledRecord struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Category         Category  `json:"donation_type"`
	Urgency          float64   `json:"urgency"`
	DonorName        string    `json:"donor_name"`
	DonorContact     string    `json:"donor_contact"`
	RecipientContact string    `json:"recipient_contact"`
	PickupLocation   string    `json:"pickup_location"`
	TransactionDate  time.Time `json:"transaction_date"`
}

// DonationEvent records one donation. RecipientID refers to a NeedRecord that
// no longer exists once the match commits, so RecipientName is snapshotted.
type DonationEvent struct {
	ID             int64     `json:"id"`
	DonorName      string    `json:"donor_name"`
	DonorContact   string    `json:"donor_contact"`
	Category       Category  `json:"donation_type"`
	PickupLocation string    `json:"pickup_location"`
	RecipientID    int64     `json:"recipient_id"`
	RecipientName  string    `json:"recipient_name"`
	DonationDate   time.Time `json:"donation_date"`
	ClassifiedType string    `json:"classified_type,omitempty"`
	SuggestedType  string    `json:"suggested_type,omitempty"`
}

// NewNeed is the input for creating a NeedRecord.
type NewNeed struct {
	Name      string
	Location  string
	Latitude  float64
	Longitude float64
	Category  Category
	Urgency   float64
	Contact   string
}

// MatchRequest is the validated input of the match transaction.
type MatchRequest struct {
	RecipientID    int64
	DonorName      string
	DonorContact   string
	Category       Category
	PickupLocation string
	ClassifiedType string
	SuggestedType  string
}

// MatchResult is returned by a committed match.
type MatchResult struct {
	Fulfilled FulfilledRecord
	Donation  DonationEvent
}

// TrainingRow is one labelled observation for the urgency model.
type TrainingRow struct {
	Latitude  float64
	Longitude float64
	Category  Category
	Urgency   float64
	Timestamp time.Time
}

// TimelineEvent is one dated occurrence of a category, used by the trend model.
type TimelineEvent struct {
	Category  Category
	Timestamp time.Time
}
