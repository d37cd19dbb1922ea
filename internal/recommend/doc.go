// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package recommend answers "books similar to this one" queries.
//
// # Architecture
//
// A Recommender wraps a prepared item-by-user rating matrix
// (internal/dataset) and a cosine nearest-neighbour index
// (internal/recommend/algorithms):
//
//	books.csv ─┐
//	           ├─ dataset.Prepare ─ Matrix ─ Recommender.Build ─ CosineKNN.Fit
//	ratings.csv┘
//
// Build runs once. The fitted state is published through an atomic pointer
// and never modified afterwards, so queries take no locks. A second Build
// returns ErrAlreadyBuilt; to reindex, construct a new Recommender and swap
// it in.
//
// # Queries
//
// Recommend looks a book up by title and returns up to k other rows ordered
// by descending similarity (1 minus cosine distance). Exact ties keep row
// order, so results are deterministic. Titles are not unique in the
// Book-Crossing data; title lookup uses the first row carrying the title
// and RecommendByISBN selects a specific edition. Each Recommendation
// carries the ISBN so duplicate titles can be told apart.
//
// k outside 1..Config.MaxK is ErrInvalidK; within it, exactly k results
// come back unless the matrix has fewer than k+1 rows.
//
// # Caching
//
// When Config.Cache.Enabled is set, results are cached in an LRU keyed by
// (row, k). The index is immutable, so entries never go stale; the TTL only
// bounds memory held by rarely repeated queries.
//
// # Errors
//
// All failures are logged where they are detected and returned wrapped
// around one of the sentinels (ErrNotReady, ErrNotFound, ErrAlreadyBuilt,
// ErrInvalidK) or the dataset and algorithms sentinels, so errors.Is works
// at every layer. A failed query leaves the Recommender usable.
package recommend
