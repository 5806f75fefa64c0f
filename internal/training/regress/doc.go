// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package regress implements the small regression toolkit used by the
// trainers: a standard scaler, k-nearest-neighbour regression, ordinary
// least squares, and a random forest of CART trees.
//
// All fitted types are plain structs with exported fields so they can be
// persisted with encoding/gob. Fit methods return an error on empty or
// ragged input; Predict methods assume a fitted model.
package regress

import "errors"

// ErrNoData is returned when a model is fitted on zero rows.
var ErrNoData = errors.New("no training data")

// ErrShape is returned when rows have inconsistent widths or X and y differ in length.
var ErrShape = errors.New("inconsistent training data shape")

// Regressor predicts a scalar from a feature vector.
type Regressor interface {
	Predict(x []float64) float64
}

func checkShape(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, ErrNoData
	}
	if len(X) != len(y) {
		return 0, ErrShape
	}
	width := len(X[0])
	for _, row := range X {
		if len(row) != width {
			return 0, ErrShape
		}
	}
	return width, nil
}
