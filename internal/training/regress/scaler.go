// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package regress

import "math"

// StandardScaler standardizes selected columns to zero mean and unit
// variance. Columns not listed pass through unchanged.
type StandardScaler struct {
	Columns []int
	Mean    []float64
	Scale   []float64
}

// Fit computes per-column mean and population standard deviation. A
// constant column gets scale 1 so it maps to zero.
func (s *StandardScaler) Fit(X [][]float64, columns []int) error {
	if len(X) == 0 {
		return ErrNoData
	}
	s.Columns = append([]int(nil), columns...)
	s.Mean = make([]float64, len(columns))
	s.Scale = make([]float64, len(columns))

	n := float64(len(X))
	for i, c := range columns {
		var sum float64
		for _, row := range X {
			if c >= len(row) {
				return ErrShape
			}
			sum += row[c]
		}
		mean := sum / n

		var ss float64
		for _, row := range X {
			d := row[c] - mean
			ss += d * d
		}
		std := math.Sqrt(ss / n)
		if std < 1e-12 {
			std = 1
		}
		s.Mean[i] = mean
		s.Scale[i] = std
	}
	return nil
}

// Transform returns a scaled copy of x.
func (s *StandardScaler) Transform(x []float64) []float64 {
	out := append([]float64(nil), x...)
	for i, c := range s.Columns {
		if c < len(out) {
			out[c] = (out[c] - s.Mean[i]) / s.Scale[i]
		}
	}
	return out
}

// TransformAll scales every row of X.
func (s *StandardScaler) TransformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.Transform(row)
	}
	return out
}
