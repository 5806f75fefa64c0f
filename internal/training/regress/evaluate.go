// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package regress

import (
	"math"
	"math/rand"
)

// R2 returns the coefficient of determination of pred against truth. It
// returns NaN when fewer than two points are given or truth is constant.
func R2(truth, pred []float64) float64 {
	if len(truth) < 2 || len(truth) != len(pred) {
		return math.NaN()
	}
	var mean float64
	for _, v := range truth {
		mean += v
	}
	mean /= float64(len(truth))

	var ssRes, ssTot float64
	for i, v := range truth {
		ssRes += (v - pred[i]) * (v - pred[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}

// Score evaluates m on X and reports R².
func Score(m Regressor, X [][]float64, y []float64) float64 {
	pred := make([]float64, len(X))
	for i, row := range X {
		pred[i] = m.Predict(row)
	}
	return R2(y, pred)
}

// TrainTestSplit shuffles row indices and holds out ceil(testFraction·n)
// of them. The training side always keeps at least one row.
func TrainTestSplit(n int, testFraction float64, rng *rand.Rand) (train, test []int) {
	if n == 0 {
		return nil, nil
	}
	perm := rng.Perm(n)
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	return perm[nTest:], perm[:nTest]
}

// Rows selects rows of X and y by index.
func Rows(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	outX := make([][]float64, len(idx))
	outY := make([]float64, len(idx))
	for i, j := range idx {
		outX[i] = X[j]
		outY[i] = y[j]
	}
	return outX, outY
}
