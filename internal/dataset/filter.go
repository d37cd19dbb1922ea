// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package dataset

import (
	"fmt"
	"sort"
)

// filterUsers keeps ratings from users with more than minRatings ratings.
// It returns the surviving ratings and the number of distinct users kept.
func filterUsers(ratings []Rating, minRatings int) ([]Rating, int) {
	counts := make(map[int]int)
	for _, r := range ratings {
		counts[r.User]++
	}

	active := 0
	for _, c := range counts {
		if c > minRatings {
			active++
		}
	}

	kept := make([]Rating, 0, len(ratings))
	for _, r := range ratings {
		if counts[r.User] > minRatings {
			kept = append(kept, r)
		}
	}
	return kept, active
}

// filterBooks keeps ratings of ISBNs with more than minRatings ratings.
// Counts are taken over the ratings passed in, not the raw source.
func filterBooks(ratings []Rating, minRatings int) ([]Rating, int) {
	counts := make(map[string]int)
	for _, r := range ratings {
		counts[r.ISBN]++
	}

	frequent := 0
	for _, c := range counts {
		if c > minRatings {
			frequent++
		}
	}

	kept := make([]Rating, 0, len(ratings))
	for _, r := range ratings {
		if counts[r.ISBN] > minRatings {
			kept = append(kept, r)
		}
	}
	return kept, frequent
}

// join drops ratings whose ISBN has no book metadata.
func join(ratings []Rating, books map[string]Book) []Rating {
	kept := make([]Rating, 0, len(ratings))
	for _, r := range ratings {
		if _, ok := books[r.ISBN]; ok {
			kept = append(kept, r)
		}
	}
	return kept
}

// pivot builds the item-by-user matrix. Rows are ISBNs ascending, columns
// are users ascending, absent cells are zero. It also returns how many
// ratings repeated an earlier (user, ISBN) pair.
func pivot(ratings []Rating, books map[string]Book, policy DuplicatePolicy) (*Matrix, int, error) {
	isbnSet := make(map[string]struct{})
	userSet := make(map[int]struct{})
	for _, r := range ratings {
		isbnSet[r.ISBN] = struct{}{}
		userSet[r.User] = struct{}{}
	}

	isbns := make([]string, 0, len(isbnSet))
	for isbn := range isbnSet {
		isbns = append(isbns, isbn)
	}
	sort.Strings(isbns)

	users := make([]int, 0, len(userSet))
	for u := range userSet {
		users = append(users, u)
	}
	sort.Ints(users)

	rowOf := make(map[string]int, len(isbns))
	for i, isbn := range isbns {
		rowOf[isbn] = i
	}
	colOf := make(map[int]int, len(users))
	for j, u := range users {
		colOf[u] = j
	}

	cols := len(users)
	data := make([]float64, len(isbns)*cols)
	counts := make([]int32, len(data))
	duplicates := 0

	for _, r := range ratings {
		cell := rowOf[r.ISBN]*cols + colOf[r.User]
		if counts[cell] > 0 {
			duplicates++
			switch policy {
			case DuplicatesReject:
				return nil, duplicates, fmt.Errorf("dataset: user %d rated %s more than once: %w",
					r.User, r.ISBN, ErrDuplicateRating)
			case DuplicatesLast:
				data[cell] = r.Rating
				counts[cell] = 1
				continue
			}
		}
		data[cell] += r.Rating
		counts[cell]++
	}

	if policy == DuplicatesMean && duplicates > 0 {
		for i, c := range counts {
			if c > 1 {
				data[i] /= float64(c)
			}
		}
	}

	titles := make([]string, len(isbns))
	authors := make([]string, len(isbns))
	for i, isbn := range isbns {
		b := books[isbn]
		titles[i] = b.Title
		authors[i] = b.Author
	}

	return newMatrix(data, isbns, titles, authors, users), duplicates, nil
}
