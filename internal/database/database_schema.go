// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package database

import (
	"context"
	"fmt"
	"time"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates sequences, tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// donation_events.recipient_id has no foreign key: the referenced need is
// deleted by the same transaction that writes the event.
var tableCreationQueries = []string{
	`CREATE SEQUENCE IF NOT EXISTS needs_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS fulfilled_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS donation_events_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS needs (
		id BIGINT PRIMARY KEY DEFAULT nextval('needs_id_seq'),
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		category TEXT NOT NULL,
		urgency DOUBLE NOT NULL CHECK (urgency >= 1 AND urgency <= 5),
		contact TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS fulfilled (
		id BIGINT PRIMARY KEY DEFAULT nextval('fulfilled_id_seq'),
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		category TEXT NOT NULL,
		urgency DOUBLE NOT NULL,
		donor_name TEXT NOT NULL,
		donor_contact TEXT NOT NULL,
		recipient_contact TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		transaction_date TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS donation_events (
		id BIGINT PRIMARY KEY DEFAULT nextval('donation_events_id_seq'),
		donor_name TEXT NOT NULL,
		donor_contact TEXT NOT NULL,
		category TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		recipient_id BIGINT NOT NULL,
		recipient_name TEXT NOT NULL,
		donation_date TIMESTAMP NOT NULL,
		classified_type TEXT NOT NULL DEFAULT '',
		suggested_type TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_needs_category ON needs(category)`,
	`CREATE INDEX IF NOT EXISTS idx_fulfilled_category ON fulfilled(category)`,
}
