// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/database"
	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/training"
	"github.com/tomtom215/aidhub/internal/training/storage"
)

func TestParseResetFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    bool
		wantErr bool
	}{
		{name: "no flags", args: nil, want: false},
		{name: "confirmed", args: []string{"-yes"}, want: true},
		{name: "double dash", args: []string{"--yes"}, want: true},
		{name: "explicit false", args: []string{"-yes=false"}, want: false},
		{name: "unknown flag", args: []string{"-force"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseResetFlags(tt.args, io.Discard)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseResetFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseResetFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunResetRequiresConfirmation(t *testing.T) {
	t.Parallel()

	if err := runReset(&config.Config{}, nil); !errors.Is(err, errResetNotConfirmed) {
		t.Errorf("runReset() error = %v, want %v", err, errResetNotConfirmed)
	}
}

func TestBuildTrainersWithoutData(t *testing.T) {
	t.Parallel()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{Training: config.TrainingConfig{
		ModelDir:         t.TempDir(),
		UrgencyModelFile: "urgency.model",
		TrendModelFile:   "trend.model",
	}}
	store := storage.NewStore()
	c := &Components{
		DB:    db,
		Store: store,
		Models: training.NewModelService(store,
			cfg.Training.UrgencyModelPath(), cfg.Training.TrendModelPath(),
			logging.NewTestLogger(io.Discard)),
	}

	trainers := buildTrainers(cfg, c)
	names := make([]string, 0, len(trainers))
	for name := range trainers {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != training.ModelTrend || names[1] != training.ModelUrgency {
		t.Fatalf("trainers = %v, want [%s %s]", names, training.ModelTrend, training.ModelUrgency)
	}

	for name, train := range trainers {
		if train(context.Background()) {
			t.Errorf("%s trainer reported success on an empty store", name)
		}
	}

	for _, path := range []string{cfg.Training.UrgencyModelPath(), cfg.Training.TrendModelPath()} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("artifact %s written without data (stat err = %v)", filepath.Base(path), err)
		}
	}
}
