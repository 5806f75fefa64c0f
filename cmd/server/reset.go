// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tomtom215/aidhub/internal/config"
	"github.com/tomtom215/aidhub/internal/logging"
)

var errResetNotConfirmed = errors.New("reset deletes all data; rerun with -yes to confirm")

// parseResetFlags reports whether the reset was confirmed.
func parseResetFlags(args []string, output io.Writer) (bool, error) {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(output)
	yes := fs.Bool("yes", false, "confirm deletion of all recipients, donations and model artifacts")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	return *yes, nil
}

// runReset empties both tables and removes the model artifacts. The server
// must not be running against the same database file.
func runReset(cfg *config.Config, args []string) error {
	confirmed, err := parseResetFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if !confirmed {
		return errResetNotConfirmed
	}

	c, err := initComponents(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.DB.Reset(context.Background()); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	if err := c.Models.RemoveArtifacts(); err != nil {
		return fmt.Errorf("failed to remove model artifacts: %w", err)
	}

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("model_dir", cfg.Training.ModelDir).
		Msg("Database and models reset")
	return nil
}
