// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/aidhub/internal/models"
)

// TrainingRows returns open and fulfilled records as urgency observations.
// Fulfilled records use their transaction date as the timestamp.
func (db *DB) TrainingRows(ctx context.Context) ([]models.TrainingRow, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT latitude, longitude, category, urgency, created_at AS ts, 0 AS src, id FROM needs
		UNION ALL
		SELECT latitude, longitude, category, urgency, transaction_date AS ts, 1 AS src, id FROM fulfilled
		ORDER BY src, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query training rows: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.TrainingRow
	for rows.Next() {
		var (
			r        models.TrainingRow
			category string
			src      int
			id       int64
		)
		if err := rows.Scan(&r.Latitude, &r.Longitude, &category, &r.Urgency, &r.Timestamp, &src, &id); err != nil {
			return nil, fmt.Errorf("failed to scan training row: %w", err)
		}
		r.Category = models.Category(category)
		out = append(out, r)
	}
	return out, rows.Err()
}

// TimelineEvents returns the category and timestamp of every open need,
// fulfilled record and donation event.
func (db *DB) TimelineEvents(ctx context.Context) ([]models.TimelineEvent, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, created_at FROM needs
		UNION ALL
		SELECT category, transaction_date FROM fulfilled
		UNION ALL
		SELECT category, donation_date FROM donation_events`)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.TimelineEvent
	for rows.Next() {
		var (
			e        models.TimelineEvent
			category string
		)
		if err := rows.Scan(&category, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		e.Category = models.Category(category)
		out = append(out, e)
	}
	return out, rows.Err()
}
