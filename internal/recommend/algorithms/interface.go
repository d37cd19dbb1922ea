// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package algorithms

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/bookshelf/internal/dataset"
)

var (
	// ErrEmptyMatrix is returned by Fit when the matrix is nil or has no
	// rows or no columns.
	ErrEmptyMatrix = errors.New("matrix is empty")

	// ErrNotTrained is returned by Neighbors before a successful Fit.
	ErrNotTrained = errors.New("index is not trained")

	// ErrRowOutOfRange is returned by Neighbors for a row outside the
	// fitted matrix.
	ErrRowOutOfRange = errors.New("row out of range")
)

// Neighbor is one query result.
type Neighbor struct {
	// Row is the neighbour's row in the fitted matrix.
	Row int

	// Distance is the cosine distance to the query row, in [0, 2].
	Distance float64
}

// Similarity returns 1 - Distance.
func (n Neighbor) Similarity() float64 {
	return 1 - n.Distance
}

// Index is a fitted nearest-neighbour structure over matrix rows.
type Index interface {
	// Name returns the index identifier.
	Name() string

	// Fit builds the index over the rows of m.
	Fit(ctx context.Context, m *dataset.Matrix) error

	// Neighbors returns up to k rows other than row, closest first.
	Neighbors(ctx context.Context, row, k int) ([]Neighbor, error)

	// IsTrained reports whether Fit has succeeded.
	IsTrained() bool

	// Version counts successful fits.
	Version() int

	// LastTrainedAt returns when Fit last succeeded.
	LastTrainedAt() time.Time
}

// BaseAlgorithm tracks the trained state shared by every index.
type BaseAlgorithm struct {
	name          string
	trained       bool
	version       int
	lastTrainedAt time.Time
	mu            sync.RWMutex
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{
		name: name,
	}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsTrained returns whether the model has been trained.
func (b *BaseAlgorithm) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns the model version.
func (b *BaseAlgorithm) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastTrainedAt returns when the model was last trained.
func (b *BaseAlgorithm) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained updates the trained state.
// Must be called while holding the training lock.
func (b *BaseAlgorithm) markTrained() {
	b.trained = true
	b.version++
	b.lastTrainedAt = time.Now()
}

func (b *BaseAlgorithm) acquireTrainLock()   { b.mu.Lock() }
func (b *BaseAlgorithm) releaseTrainLock()   { b.mu.Unlock() }
func (b *BaseAlgorithm) acquirePredictLock() { b.mu.RLock() }
func (b *BaseAlgorithm) releasePredictLock() { b.mu.RUnlock() }

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

var _ Index = (*CosineKNN)(nil)
