// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package dataset turns raw book metadata and rating events into the
// item-by-user rating matrix the recommender is fitted on.
//
// # Pipeline
//
// Prepare runs the following steps once, in order:
//
//  1. Load the books and ratings sources (concurrently), decoding
//     ISO-8859-1 by default and splitting on ';'.
//  2. Drop book rows with a missing field.
//  3. Keep ratings from users with more than MinUserRatings ratings.
//  4. Over what is left, keep ratings of books with more than
//     MinBookRatings ratings.
//  5. Inner join ratings with book metadata on ISBN.
//  6. Pivot into a dense matrix: one row per ISBN, one column per user,
//     absent cells zero-filled.
//
// Both thresholds are exclusive. The user filter runs first, so book counts
// are computed after some ratings have already been removed.
//
// # Row identity
//
// Rows are keyed by ISBN and sorted ascending; the title is a display
// label. Two ISBNs can share a title, in which case LookupTitle resolves to
// the first (lowest) row. LookupISBN is always unambiguous.
//
// # Missing versus zero
//
// Absent ratings are stored as 0, exactly like an explicit rating of 0.
// Cosine similarity over these rows matches the dense zero-filled reference
// output; callers that need to tell the two apart should look at the raw
// ratings instead.
package dataset
