// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package regress

import (
	"errors"
	"math"
)

// ridge keeps the normal equations solvable when columns are collinear
// (one-hot blocks always sum to the intercept). It is small enough that
// well-conditioned fits match ordinary least squares.
const ridge = 1e-8

// Linear is an ordinary least squares model with intercept.
type Linear struct {
	Coef      []float64
	Intercept float64
}

// Fit solves the centered normal equations (XᵀX + λI)w = Xᵀy with a
// Cholesky factorization.
//
//nolint:gocritic // X, y follow standard notation
func (m *Linear) Fit(X [][]float64, y []float64) error {
	p, err := checkShape(X, y)
	if err != nil {
		return err
	}
	n := float64(len(X))

	xMean := make([]float64, p)
	var yMean float64
	for i, row := range X {
		for j, v := range row {
			xMean[j] += v
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= n
	}
	yMean /= n

	G := make([][]float64, p)
	for i := range G {
		G[i] = make([]float64, p)
	}
	b := make([]float64, p)
	for i, row := range X {
		dy := y[i] - yMean
		for j := 0; j < p; j++ {
			dj := row[j] - xMean[j]
			b[j] += dj * dy
			for k := 0; k <= j; k++ {
				G[j][k] += dj * (row[k] - xMean[k])
			}
		}
	}

	var trace float64
	for j := 0; j < p; j++ {
		for k := 0; k < j; k++ {
			G[k][j] = G[j][k]
		}
		trace += G[j][j]
	}
	lambda := ridge * math.Max(trace/float64(max(p, 1)), 1)
	for j := 0; j < p; j++ {
		G[j][j] += lambda
	}

	w := make([]float64, p)
	if p > 0 {
		L, err := cholesky(G)
		if err != nil {
			return err
		}
		w = choleskySolve(L, b)
	}

	m.Coef = w
	m.Intercept = yMean
	for j := range w {
		m.Intercept -= w[j] * xMean[j]
	}
	return nil
}

// Predict returns the intercept plus the dot product with Coef.
func (m *Linear) Predict(x []float64) float64 {
	out := m.Intercept
	for j, c := range m.Coef {
		if j < len(x) {
			out += c * x[j]
		}
	}
	return out
}

var errNotPositiveDefinite = errors.New("matrix is not positive definite")

// cholesky computes L such that A = L·Lᵀ.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func cholesky(A [][]float64) ([][]float64, error) {
	n := len(A)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}
			if i == j {
				if sum <= 0 {
					return nil, errNotPositiveDefinite
				}
				L[i][j] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}
	return L, nil
}

// choleskySolve solves L·Lᵀ·x = b by forward then back substitution.
//
//nolint:gocritic // L follows standard linear algebra notation
func choleskySolve(L [][]float64, b []float64) []float64 {
	n := len(L)
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= L[i][k] * z[k]
		}
		z[i] = sum / L[i][i]
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for k := i + 1; k < n; k++ {
			sum -= L[k][i] * x[k]
		}
		x[i] = sum / L[i][i]
	}
	return x
}
