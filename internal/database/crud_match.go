// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/aidhub/internal/models"
)

// MatchDonation fulfils an open need in one transaction: it snapshots the
// need into a fulfilled record, writes the donation event and deletes the
// need. Either all three effects commit or none do.
//
// Returns ErrRecipientNotFound when the need does not exist, including when
// a concurrent match committed first.
func (db *DB) MatchDonation(ctx context.Context, req *models.MatchRequest) (result *models.MatchResult, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	db.matchMu.Lock()
	defer db.matchMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rollback(tx, err)
		}
	}()

	need, err := scanNeed(tx.QueryRowContext(ctx,
		`SELECT `+needColumns+` FROM needs WHERE id = ?`, req.RecipientID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read need %d: %w", req.RecipientID, err)
	}

	now := db.now()
	fulfilled := models.FulfilledRecord{
		Name:             need.Name,
		Location:         need.Location,
		Latitude:         need.Latitude,
		Longitude:        need.Longitude,
		Category:         need.Category,
		Urgency:          need.Urgency,
		DonorName:        req.DonorName,
		DonorContact:     req.DonorContact,
		RecipientContact: need.Contact,
		PickupLocation:   req.PickupLocation,
		TransactionDate:  now,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO fulfilled (name, location, latitude, longitude, category, urgency,
			donor_name, donor_contact, recipient_contact, pickup_location, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		fulfilled.Name, fulfilled.Location, fulfilled.Latitude, fulfilled.Longitude,
		string(fulfilled.Category), fulfilled.Urgency, fulfilled.DonorName, fulfilled.DonorContact,
		fulfilled.RecipientContact, fulfilled.PickupLocation, fulfilled.TransactionDate,
	).Scan(&fulfilled.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert fulfilled record: %w", err)
	}

	if db.afterFulfilledInsert != nil {
		if err = db.afterFulfilledInsert(); err != nil {
			return nil, err
		}
	}

	category := models.NormalizeCategory(string(req.Category))
	if category.IsZero() {
		category = need.Category
	}
	donation := models.DonationEvent{
		DonorName:      req.DonorName,
		DonorContact:   req.DonorContact,
		Category:       category,
		PickupLocation: req.PickupLocation,
		RecipientID:    need.ID,
		RecipientName:  need.Name,
		DonationDate:   now,
		ClassifiedType: req.ClassifiedType,
		SuggestedType:  req.SuggestedType,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO donation_events (donor_name, donor_contact, category, pickup_location,
			recipient_id, recipient_name, donation_date, classified_type, suggested_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		donation.DonorName, donation.DonorContact, string(donation.Category), donation.PickupLocation,
		donation.RecipientID, donation.RecipientName, donation.DonationDate,
		donation.ClassifiedType, donation.SuggestedType,
	).Scan(&donation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert donation event: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM needs WHERE id = ?`, need.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete need %d: %w", need.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected != 1 {
		return nil, ErrRecipientNotFound
	}

	if err = tx.Commit(); err != nil {
		if isTransactionConflict(err) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	return &models.MatchResult{Fulfilled: fulfilled, Donation: donation}, nil
}
