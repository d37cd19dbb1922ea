// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/bookshelf/internal/dataset"
	"github.com/tomtom215/bookshelf/internal/recommend"
)

// IndexBuilder prepares and builds the neighbour index.
// *recommend.Recommender satisfies it.
type IndexBuilder interface {
	BuildFromSources(ctx context.Context, books, ratings dataset.Source) error
}

// IndexBuildService builds the index once under supervision. A successful
// build returns suture.ErrDoNotRestart and the service leaves the tree.
// A failed build is not retried: the error wraps
// suture.ErrTerminateSupervisorTree, so the whole tree stops and its Serve
// returns the build error to the caller.
type IndexBuildService struct {
	builder IndexBuilder
	books   dataset.Source
	ratings dataset.Source
	timeout time.Duration
	logger  zerolog.Logger
	name    string
}

// NewIndexBuildService creates the build service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexBuildService(builder IndexBuilder, books, ratings dataset.Source, logger zerolog.Logger) *IndexBuildService {
	return &IndexBuildService{
		builder: builder,
		books:   books,
		ratings: ratings,
		timeout: 30 * time.Minute,
		logger:  logger.With().Str("service", "index-build").Logger(),
		name:    "index-build",
	}
}

// WithTimeout bounds a single build attempt.
func (s *IndexBuildService) WithTimeout(d time.Duration) *IndexBuildService {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Serve implements suture.Service.
func (s *IndexBuildService) Serve(ctx context.Context) error {
	buildCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.logger.Info().
		Str("books", s.books.Name()).
		Str("ratings", s.ratings.Name()).
		Msg("building recommendation index")

	err := s.builder.BuildFromSources(buildCtx, s.books, s.ratings)
	switch {
	case err == nil:
		s.logger.Info().Dur("duration", time.Since(start)).Msg("recommendation index ready")
		return suture.ErrDoNotRestart

	case errors.Is(err, recommend.ErrAlreadyBuilt):
		return suture.ErrDoNotRestart

	case ctx.Err() != nil:
		return ctx.Err()

	default:
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("index build failed, stopping")
		return fmt.Errorf("index build: %w: %w", err, suture.ErrTerminateSupervisorTree)
	}
}

// String names the service in supervisor events.
func (s *IndexBuildService) String() string {
	return s.name
}
