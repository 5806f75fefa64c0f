// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package geocode

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/aidhub/internal/models"
)

const geocodeKeyPrefix = "geocode:"

// DiskStore persists resolved coordinates in BadgerDB so lookups survive
// restarts. Entries expire through Badger's native TTL.
type DiskStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenDiskStore opens (or creates) a Badger directory at path.
func OpenDiskStore(path string, ttl time.Duration) (*DiskStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open geocode store %s: %w", path, err)
	}
	return &DiskStore{db: db, ttl: ttl}, nil
}

// NewDiskStore wraps an already open Badger database.
func NewDiskStore(db *badger.DB, ttl time.Duration) *DiskStore {
	return &DiskStore{db: db, ttl: ttl}
}

// Get returns the stored coordinates for key, if any.
func (s *DiskStore) Get(key string) (models.Coordinates, bool, error) {
	var coords models.Coordinates
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(geocodeKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &coords)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.Coordinates{}, false, nil
	}
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("read geocode entry: %w", err)
	}
	return coords, true, nil
}

// Put stores coordinates for key.
func (s *DiskStore) Put(key string, coords models.Coordinates) error {
	data, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("marshal coordinates: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(geocodeKeyPrefix+key), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Close closes the underlying database.
func (s *DiskStore) Close() error {
	return s.db.Close()
}
