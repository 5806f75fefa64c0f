// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/aidhub/internal/models"
)

// ListFulfilled returns fulfilled records, newest first.
func (db *DB) ListFulfilled(ctx context.Context) ([]models.FulfilledRecord, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, location, latitude, longitude, category, urgency,
			donor_name, donor_contact, recipient_contact, pickup_location, transaction_date
		FROM fulfilled
		ORDER BY transaction_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fulfilled records: %w", err)
	}
	defer closeQuietly(rows)

	var records []models.FulfilledRecord
	for rows.Next() {
		var (
			r        models.FulfilledRecord
			category string
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Location, &r.Latitude, &r.Longitude, &category,
			&r.Urgency, &r.DonorName, &r.DonorContact, &r.RecipientContact, &r.PickupLocation,
			&r.TransactionDate); err != nil {
			return nil, fmt.Errorf("failed to scan fulfilled record: %w", err)
		}
		r.Category = models.Category(category)
		records = append(records, r)
	}
	return records, rows.Err()
}

// FulfilledStatsByCategory aggregates fulfilled records per category,
// ordered by count descending then category.
func (db *DB) FulfilledStatsByCategory(ctx context.Context) ([]models.CategoryStats, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, COUNT(*) AS n, AVG(urgency)
		FROM fulfilled
		GROUP BY category
		ORDER BY n DESC, category ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate fulfilled records: %w", err)
	}
	defer closeQuietly(rows)

	var stats []models.CategoryStats
	for rows.Next() {
		var (
			s        models.CategoryStats
			category string
		)
		if err := rows.Scan(&category, &s.Count, &s.AvgUrgency); err != nil {
			return nil, fmt.Errorf("failed to scan category stats: %w", err)
		}
		s.Category = models.Category(category)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TopOpenCategories returns the categories with the most open needs.
func (db *DB) TopOpenCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, COUNT(*) AS n
		FROM needs
		GROUP BY category
		ORDER BY n DESC, category ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to count open categories: %w", err)
	}
	defer closeQuietly(rows)

	var counts []models.CategoryCount
	for rows.Next() {
		var (
			c        models.CategoryCount
			category string
		)
		if err := rows.Scan(&category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		c.Category = models.Category(category)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SummaryStats returns donation totals.
func (db *DB) SummaryStats(ctx context.Context) (models.SummaryStats, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var s models.SummaryStats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM donation_events),
			(SELECT COUNT(DISTINCT donor_name) FROM donation_events),
			(SELECT COUNT(DISTINCT location) FROM fulfilled)`,
	).Scan(&s.TotalDonations, &s.UniqueDonors, &s.CommunitiesServed)
	if err != nil {
		return s, fmt.Errorf("failed to read summary stats: %w", err)
	}
	return s, nil
}

// Reset deletes every open need, fulfilled record and donation event.
func (db *DB) Reset(ctx context.Context) (err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rollback(tx, err)
		}
	}()

	for _, table := range []string{"donation_events", "fulfilled", "needs"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// isTransactionConflict checks if an error is a DuckDB write-write conflict.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on")
}
