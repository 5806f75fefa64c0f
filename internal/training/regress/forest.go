// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package regress

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a regression tree stored in a flat slice.
// Leaf nodes carry Value; internal nodes send x[Feature] <= Threshold left.
type TreeNode struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      int
	Right     int
}

// Tree is a CART regression tree grown to purity (min 2 samples to split).
type Tree struct {
	Nodes []TreeNode
}

// Predict walks the tree from the root.
func (t *Tree) Predict(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for !t.Nodes[i].Leaf {
		n := t.Nodes[i]
		if n.Feature < len(x) && x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// Forest is a bagged ensemble of regression trees. Every tree sees a
// bootstrap sample and considers all features at each split.
type Forest struct {
	NumTrees int
	Seed     int64
	Trees    []Tree
}

// NewForest returns an unfitted forest.
func NewForest(numTrees int, seed int64) *Forest {
	return &Forest{NumTrees: numTrees, Seed: seed}
}

// Fit grows NumTrees trees. The same seed and data always produce the same forest.
//
//nolint:gocritic // X, y follow standard notation
func (f *Forest) Fit(X [][]float64, y []float64) error {
	if _, err := checkShape(X, y); err != nil {
		return err
	}
	if f.NumTrees <= 0 {
		f.NumTrees = 100
	}

	rng := rand.New(rand.NewSource(f.Seed)) //nolint:gosec // reproducible model fitting
	n := len(X)
	f.Trees = make([]Tree, f.NumTrees)
	for t := range f.Trees {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		b := treeBuilder{X: X, y: y}
		b.grow(sample)
		f.Trees[t] = Tree{Nodes: b.nodes}
	}
	return nil
}

// Predict averages all tree predictions.
func (f *Forest) Predict(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return sum / float64(len(f.Trees))
}

type treeBuilder struct {
	X     [][]float64
	y     []float64
	nodes []TreeNode
}

// grow appends the subtree for idx and returns its root index.
func (b *treeBuilder) grow(idx []int) int {
	self := len(b.nodes)
	b.nodes = append(b.nodes, TreeNode{Leaf: true, Value: b.mean(idx)})

	if len(idx) < 2 {
		return self
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left)
	r := b.grow(right)
	b.nodes[self] = TreeNode{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return self
}

func (b *treeBuilder) mean(idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += b.y[i]
	}
	return sum / float64(len(idx))
}

// bestSplit finds the split minimizing the summed squared error of the two
// children. It reports false when no split improves on the parent.
func (b *treeBuilder) bestSplit(idx []int) (int, float64, bool) {
	var total, totalSq float64
	for _, i := range idx {
		total += b.y[i]
		totalSq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	parentSSE := totalSq - total*total/n
	if parentSSE <= 1e-12 {
		return 0, 0, false
	}

	bestSSE := parentSSE
	bestFeature, bestThreshold, found := 0, 0.0, false

	sorted := make([]int, len(idx))
	width := len(b.X[idx[0]])
	for f := 0; f < width; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool { return b.X[sorted[a]][f] < b.X[sorted[c]][f] })

		var leftSum, leftSq float64
		for k := 0; k < len(sorted)-1; k++ {
			v := b.y[sorted[k]]
			leftSum += v
			leftSq += v * v

			cur, next := b.X[sorted[k]][f], b.X[sorted[k+1]][f]
			if cur == next {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				bestFeature = f
				bestThreshold = cur + (next-cur)/2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
