// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Prepare loads both sources and builds the rating matrix.
//
// The result may have zero rows when the thresholds remove everything; that
// is not an error. The recommender refuses to build from it instead.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Prepare(ctx context.Context, books, ratings Source, opts Options, logger zerolog.Logger) (*Matrix, error) {
	if books == nil || ratings == nil {
		return nil, &SourceError{Source: "<nil>", Op: "open", Err: errors.New("source not configured")}
	}
	opts = opts.withDefaults()
	if _, err := ParseEncoding(string(opts.Encoding)); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if _, err := ParseDuplicatePolicy(string(opts.Duplicates)); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	start := time.Now()
	logger.Debug().
		Str("books", books.Name()).
		Str("ratings", ratings.Name()).
		Int("min_book_ratings", opts.MinBookRatings).
		Int("min_user_ratings", opts.MinUserRatings).
		Msg("Loading data sources")

	var (
		bookIndex map[string]Book
		bookStats *Stats
		events    []Rating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookIndex, bookStats, err = readBooks(gctx, books, opts)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = readRatings(gctx, ratings, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Failed to load data sources")
		return nil, err
	}

	stats := *bookStats
	stats.RatingsRead = len(events)
	stats.LoadDuration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buildStart := time.Now()
	kept, active := filterUsers(events, opts.MinUserRatings)
	stats.ActiveUsers = active
	stats.RatingsAfterUserFilter = len(kept)

	kept, frequent := filterBooks(kept, opts.MinBookRatings)
	stats.FrequentBooks = frequent
	stats.RatingsAfterBookFilter = len(kept)

	kept = join(kept, bookIndex)
	stats.RatingsAfterJoin = len(kept)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, dups, err := pivot(kept, bookIndex, opts.Duplicates)
	stats.DuplicateRatings = dups
	if err != nil {
		logger.Error().Err(err).Str("policy", string(opts.Duplicates)).Msg("Failed to build rating matrix")
		return nil, err
	}
	stats.Rows, stats.Cols = m.Dims()
	stats.BuildDuration = time.Since(buildStart)
	m.stats = stats

	event := logger.Info()
	if stats.Rows == 0 {
		event = logger.Warn()
	}
	event.
		Int("books_read", stats.BooksRead).
		Int("books_dropped", stats.BooksDropped).
		Int("ratings_read", stats.RatingsRead).
		Int("active_users", stats.ActiveUsers).
		Int("frequent_books", stats.FrequentBooks).
		Int("ratings_joined", stats.RatingsAfterJoin).
		Int("duplicates", stats.DuplicateRatings).
		Int("rows", stats.Rows).
		Int("cols", stats.Cols).
		Dur("load_duration", stats.LoadDuration).
		Dur("build_duration", stats.BuildDuration).
		Msg("Rating matrix prepared")

	return m, nil
}
