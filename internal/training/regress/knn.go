// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package regress

import "sort"

// KNN is a uniform-weight k-nearest-neighbour regressor over Euclidean
// distance. Equidistant neighbours are taken in training order.
type KNN struct {
	K int
	X [][]float64
	Y []float64
}

// NewKNN returns an unfitted regressor with the given k.
func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Fit memorizes the training set. K is capped at the row count.
func (m *KNN) Fit(X [][]float64, y []float64) error {
	if _, err := checkShape(X, y); err != nil {
		return err
	}
	if m.K <= 0 {
		m.K = 1
	}
	if m.K > len(X) {
		m.K = len(X)
	}
	m.X = make([][]float64, len(X))
	for i, row := range X {
		m.X[i] = append([]float64(nil), row...)
	}
	m.Y = append([]float64(nil), y...)
	return nil
}

// Predict averages the targets of the K closest training rows.
func (m *KNN) Predict(x []float64) float64 {
	type neighbour struct {
		idx  int
		dist float64
	}
	ns := make([]neighbour, len(m.X))
	for i, row := range m.X {
		ns[i] = neighbour{idx: i, dist: squaredDistance(row, x)}
	}
	sort.SliceStable(ns, func(a, b int) bool { return ns[a].dist < ns[b].dist })

	var sum float64
	for _, n := range ns[:m.K] {
		sum += m.Y[n.idx]
	}
	return sum / float64(m.K)
}

func squaredDistance(a, b []float64) float64 {
	var d float64
	for i := range a {
		if i >= len(b) {
			break
		}
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}
