// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package algorithms implements the nearest-neighbour index behind the
// recommender.
//
// An Index is fitted once over the rows of a dataset.Matrix and then
// answers "which rows are closest to row i" queries. The only metric is
// cosine distance:
//
//	distance(a, b) = 1 - dot(a, b) / (|a| * |b|)
//
// A row with zero norm has similarity 0 with every other row, so its
// distance is 1.
//
// # CosineKNN
//
// CosineKNN is an exact brute-force index. Fit precomputes the row norms
// with a small worker pool; Neighbors scores every other row against the
// query with gonum's floats.Dot and returns the k closest.
//
//	knn := algorithms.NewCosineKNN(algorithms.KNNConfig{NumWorkers: 4})
//	if err := knn.Fit(ctx, matrix); err != nil {
//	    return err
//	}
//	neighbors, err := knn.Neighbors(ctx, row, 5)
//
// Results are ordered by increasing distance. Exact ties are broken by
// ascending row position so that repeated queries are reproducible.
//
// # Thread Safety
//
// Fit acquires an exclusive lock and Neighbors a shared one, so a fitted
// index can serve any number of concurrent queries.
package algorithms
