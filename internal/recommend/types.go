// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package recommend

import (
	"time"

	"github.com/tomtom215/bookshelf/internal/dataset"
)

// Recommendation is one similar book.
type Recommendation struct {
	// Title is the row label of the recommended book.
	Title string `json:"title"`

	// ISBN identifies the recommended row; titles are not unique.
	ISBN string `json:"isbn"`

	// SimilarityScore is 1 minus the cosine distance to the query book.
	SimilarityScore float64 `json:"similarity_score"`
}

// BuildState is the lifecycle state of a Recommender.
type BuildState int32

const (
	// StateUnbuilt means Build has not succeeded yet.
	StateUnbuilt BuildState = iota
	// StateBuilding means a Build is in progress.
	StateBuilding
	// StateBuilt means the index is serving queries.
	StateBuilt
)

// String returns a human-readable name for the state.
func (s BuildState) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateBuilding:
		return "building"
	case StateBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s BuildState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a point-in-time snapshot of the recommender.
type Status struct {
	State BuildState `json:"state"`
	Ready bool       `json:"ready"`

	// Algorithm is the neighbour index in use.
	Algorithm string `json:"algorithm"`

	// Rows and Cols are the matrix shape (books x users).
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	BuiltAt       time.Time     `json:"built_at"`
	BuildDuration time.Duration `json:"build_duration_ns"`

	// Dataset holds the preparation counts of the indexed matrix.
	Dataset dataset.Stats `json:"dataset"`

	Queries     int64 `json:"queries"`
	Errors      int64 `json:"errors"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
}
