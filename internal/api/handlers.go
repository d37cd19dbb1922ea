// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookshelf/internal/recommend"
)

// Recommender is the query surface the handlers depend on.
// *recommend.Recommender satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, title string, k int) ([]recommend.Recommendation, error)
	RecommendByISBN(ctx context.Context, isbn string, k int) ([]recommend.Recommendation, error)
	Titles(prefix string, limit int) ([]string, error)
	Status() recommend.Status
	Ready() bool
	DefaultK() int
}

// Handler serves the HTTP endpoints.
type Handler struct {
	recommender Recommender
	logger      zerolog.Logger
	startTime   time.Time
	version     string
}

// NewHandler creates a handler over rec.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(rec Recommender, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		recommender: rec,
		logger:      logger.With().Str("component", "api").Logger(),
		startTime:   time.Now(),
		version:     version,
	}
}
