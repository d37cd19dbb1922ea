// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package recommend

import "errors"

var (
	// ErrNotReady is returned by queries before a successful Build, and by
	// Build when there is no matrix to index.
	ErrNotReady = errors.New("recommender not ready")

	// ErrNotFound is returned when the query title or ISBN is not a row of
	// the matrix.
	ErrNotFound = errors.New("book not found")

	// ErrAlreadyBuilt is returned by a second Build. The index is never
	// rebuilt in place.
	ErrAlreadyBuilt = errors.New("recommender already built")

	// ErrInvalidK is returned when k is not in 1..Config.MaxK.
	ErrInvalidK = errors.New("k out of range")
)
