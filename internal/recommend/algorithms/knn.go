// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package algorithms

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/bookshelf/internal/dataset"
)

// KNNConfig contains configuration for the cosine index.
type KNNConfig struct {
	// NumWorkers is the number of goroutines computing row norms during
	// Fit. Zero means runtime.NumCPU().
	NumWorkers int
}

// DefaultKNNConfig returns default KNN configuration.
func DefaultKNNConfig() KNNConfig {
	return KNNConfig{NumWorkers: runtime.NumCPU()}
}

// CosineKNN is an exact cosine nearest-neighbour index over matrix rows.
type CosineKNN struct {
	BaseAlgorithm
	config KNNConfig

	matrix *dataset.Matrix

	// norms holds the Euclidean norm of each row.
	norms []float64
}

// NewCosineKNN creates an untrained index.
func NewCosineKNN(cfg KNNConfig) *CosineKNN {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	return &CosineKNN{
		BaseAlgorithm: NewBaseAlgorithm("cosine_knn"),
		config:        cfg,
	}
}

// Fit precomputes the row norms of m.
func (c *CosineKNN) Fit(ctx context.Context, m *dataset.Matrix) error {
	if m.Empty() {
		return ErrEmptyMatrix
	}

	c.acquireTrainLock()
	defer c.releaseTrainLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	rows := m.Rows()
	norms := make([]float64, rows)

	workers := c.config.NumWorkers
	if workers > rows {
		workers = rows
	}
	chunkSize := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if ContextCancelled(ctx) {
					return
				}
				norms[i] = floats.Norm(m.RawRow(i), 2)
			}
		}(start, end)
	}
	wg.Wait()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	c.matrix = m
	c.norms = norms
	c.markTrained()
	return nil
}

// Neighbors returns the min(k, rows-1) rows closest to row, excluding row
// itself. k <= 0 yields no neighbours.
func (c *CosineKNN) Neighbors(ctx context.Context, row, k int) ([]Neighbor, error) {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	if !c.trained {
		return nil, ErrNotTrained
	}
	rows := len(c.norms)
	if row < 0 || row >= rows {
		return nil, fmt.Errorf("row %d of %d: %w", row, rows, ErrRowOutOfRange)
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}

	query := c.matrix.RawRow(row)
	queryNorm := c.norms[row]

	candidates := make([]Neighbor, 0, rows-1)
	for i := 0; i < rows; i++ {
		if i == row {
			continue
		}
		if i%1024 == 0 && ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		candidates = append(candidates, Neighbor{
			Row:      i,
			Distance: cosineDistance(query, c.matrix.RawRow(i), queryNorm, c.norms[i]),
		})
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].Distance != candidates[b].Distance {
			return candidates[a].Distance < candidates[b].Distance
		}
		return candidates[a].Row < candidates[b].Row
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// cosineDistance returns 1 - cos(a, b) given precomputed norms. Rounding
// can push the cosine slightly outside [-1, 1]; it is clamped back.
func cosineDistance(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 1
	}
	sim := floats.Dot(a, b) / (normA * normB)
	switch {
	case sim > 1:
		sim = 1
	case sim < -1:
		sim = -1
	}
	return 1 - sim
}
