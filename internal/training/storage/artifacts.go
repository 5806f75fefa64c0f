// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package storage persists trained model artifacts.
//
// An artifact file is a gob-encoded envelope holding metadata and the
// gzip-compressed gob encoding of the model. The SHA-256 of the
// uncompressed payload is verified on load. Writes go to a temporary file
// in the same directory and are renamed into place, so readers see either
// the previous artifact or the new one, never a partial file.
package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	// ErrModelNotFound is returned when no artifact exists at the path.
	ErrModelNotFound = errors.New("model artifact not found")
	// ErrChecksumMismatch is returned when the payload fails verification.
	ErrChecksumMismatch = errors.New("model artifact checksum mismatch")
)

// Metadata describes a stored artifact.
type Metadata struct {
	Name      string
	Family    string
	TrainedAt time.Time
	SavedAt   time.Time
	Rows      int

	// Score is the held-out R², valid only when HasScore is set.
	Score    float64
	HasScore bool

	Checksum           string
	SizeBytes          int64
	TrainingDurationMS int64
}

type envelope struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store reads and writes artifacts. A single Store serializes its own
// writes per path; separate processes rely on the atomic rename.
type Store struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{locks: make(map[string]*sync.RWMutex)}
}

func (s *Store) lockFor(path string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[path] = l
	}
	return l
}

// Save encodes data and atomically replaces the artifact at path.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(path string, data interface{}, meta Metadata) error {
	l := s.lockFor(path)
	l.Lock()
	defer l.Unlock()

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(data); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := gob.NewEncoder(tmp).Encode(envelope{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("install model file: %w", err)
	}
	return nil
}

// Load decodes the artifact at path into target.
func (s *Store) Load(path string, target interface{}) (*Metadata, error) {
	l := s.lockFor(path)
	l.RLock()
	defer l.RUnlock()

	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var env envelope
	if err := gob.NewDecoder(f).Decode(&env); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != env.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, env.Metadata.Checksum, got)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &env.Metadata, nil
}

// Remove deletes the artifact at path. A missing file is not an error.
func (s *Store) Remove(path string) error {
	l := s.lockFor(path)
	l.Lock()
	defer l.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete model: %w", err)
	}
	return nil
}
