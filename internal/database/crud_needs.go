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

// ErrRecipientNotFound is returned when no open need has the requested id.
var ErrRecipientNotFound = errors.New("recipient not found")

const needColumns = `id, name, location, latitude, longitude, category, urgency, contact, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNeed(row rowScanner) (models.NeedRecord, error) {
	var (
		n        models.NeedRecord
		category string
	)
	err := row.Scan(&n.ID, &n.Name, &n.Location, &n.Latitude, &n.Longitude,
		&category, &n.Urgency, &n.Contact, &n.CreatedAt)
	n.Category = models.Category(category)
	return n, err
}

// CreateNeed inserts an open need. The category is normalized and the
// urgency clamped to [1, 5].
func (db *DB) CreateNeed(ctx context.Context, in *models.NewNeed) (*models.NeedRecord, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	need := models.NeedRecord{
		Name:      in.Name,
		Location:  in.Location,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Category:  models.NormalizeCategory(string(in.Category)),
		Urgency:   models.ClampUrgency(in.Urgency),
		Contact:   in.Contact,
		CreatedAt: db.now(),
	}

	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO needs (name, location, latitude, longitude, category, urgency, contact, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		need.Name, need.Location, need.Latitude, need.Longitude,
		string(need.Category), need.Urgency, need.Contact, need.CreatedAt,
	).Scan(&need.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert need: %w", err)
	}
	return &need, nil
}

// GetNeed returns the open need with the given id or ErrRecipientNotFound.
func (db *DB) GetNeed(ctx context.Context, id int64) (*models.NeedRecord, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	need, err := scanNeed(db.conn.QueryRowContext(ctx,
		`SELECT `+needColumns+` FROM needs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get need %d: %w", id, err)
	}
	return &need, nil
}

// ListNeedsByCategory returns open needs of one category in insertion order.
func (db *DB) ListNeedsByCategory(ctx context.Context, category models.Category) ([]models.NeedRecord, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+needColumns+` FROM needs WHERE category = ? ORDER BY id`,
		string(models.NormalizeCategory(string(category))))
	if err != nil {
		return nil, fmt.Errorf("failed to list needs: %w", err)
	}
	defer closeQuietly(rows)

	var needs []models.NeedRecord
	for rows.Next() {
		need, err := scanNeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan need: %w", err)
		}
		needs = append(needs, need)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate needs: %w", err)
	}
	return needs, nil
}

// UrgencyStats returns open and fulfilled urgency aggregates for a category.
func (db *DB) UrgencyStats(ctx context.Context, category models.Category) (models.UrgencyStats, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var (
		stats                  models.UrgencyStats
		openMean, fulfilledAvg sql.NullFloat64
		c                      = string(models.NormalizeCategory(string(category)))
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM needs WHERE category = ?),
			(SELECT AVG(urgency) FROM needs WHERE category = ?),
			(SELECT COUNT(*) FROM fulfilled WHERE category = ?),
			(SELECT AVG(urgency) FROM fulfilled WHERE category = ?)`,
		c, c, c, c,
	).Scan(&stats.OpenCount, &openMean, &stats.FulfilledCount, &fulfilledAvg)
	if err != nil {
		return stats, fmt.Errorf("failed to read urgency stats: %w", err)
	}
	stats.OpenMean = openMean.Float64
	stats.FulfilledMean = fulfilledAvg.Float64
	return stats, nil
}
