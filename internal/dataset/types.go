// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Book is one row of book metadata.
type Book struct {
	// ISBN is the unique edition identifier.
	ISBN string `json:"isbn"`

	// Title is the display title.
	Title string `json:"title"`

	// Author is the book author.
	Author string `json:"author"`
}

// Rating is a single rating event.
type Rating struct {
	// User is the rating user's identifier.
	User int `json:"user"`

	// ISBN identifies the rated book.
	ISBN string `json:"isbn"`

	// Rating is the rating value.
	Rating float64 `json:"rating"`
}

// Encoding selects how source bytes are decoded.
type Encoding string

const (
	// EncodingLatin1 decodes ISO-8859-1. Every byte sequence is valid.
	EncodingLatin1 Encoding = "latin1"
	// EncodingUTF8 reads UTF-8 and strips a leading byte order mark.
	EncodingUTF8 Encoding = "utf-8"
)

// ParseEncoding converts a configuration string to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", s)
	}
}

// DuplicatePolicy decides what a cell holds when a user rated the same ISBN
// more than once.
type DuplicatePolicy string

const (
	// DuplicatesMean averages the duplicate ratings.
	DuplicatesMean DuplicatePolicy = "mean"
	// DuplicatesLast keeps the rating that appears last in the source.
	DuplicatesLast DuplicatePolicy = "last"
	// DuplicatesReject fails the pipeline with ErrDuplicateRating.
	DuplicatesReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy converts a configuration string to a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicatesMean, nil
	case DuplicatesMean, DuplicatesLast, DuplicatesReject:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported duplicate policy %q", s)
	}
}

// Options controls the preparation pipeline.
type Options struct {
	// MinBookRatings is the exclusive minimum number of ratings a book
	// needs to be kept. Default: 100.
	MinBookRatings int

	// MinUserRatings is the exclusive minimum number of ratings a user
	// needs to be kept. Default: 10.
	MinUserRatings int

	// Separator is the field separator. Default: ';'.
	Separator rune

	// Encoding is the source text encoding. Default: latin1.
	Encoding Encoding

	// Duplicates is the duplicate (user, ISBN) policy. Default: mean.
	Duplicates DuplicatePolicy
}

// DefaultOptions returns the reference thresholds and file conventions.
func DefaultOptions() Options {
	return Options{
		MinBookRatings: 100,
		MinUserRatings: 10,
		Separator:      ';',
		Encoding:       EncodingLatin1,
		Duplicates:     DuplicatesMean,
	}
}

// withDefaults fills zero-valued format fields. Thresholds are left alone
// because zero is a meaningful threshold.
func (o Options) withDefaults() Options {
	if o.Separator == 0 {
		o.Separator = ';'
	}
	if o.Encoding == "" {
		o.Encoding = EncodingLatin1
	}
	if o.Duplicates == "" {
		o.Duplicates = DuplicatesMean
	}
	return o
}

// Stats describes what each pipeline step kept.
type Stats struct {
	BooksRead    int `json:"books_read"`
	BooksDropped int `json:"books_dropped"`
	RatingsRead  int `json:"ratings_read"`

	ActiveUsers            int `json:"active_users"`
	RatingsAfterUserFilter int `json:"ratings_after_user_filter"`
	FrequentBooks          int `json:"frequent_books"`
	RatingsAfterBookFilter int `json:"ratings_after_book_filter"`
	RatingsAfterJoin       int `json:"ratings_after_join"`
	DuplicateRatings       int `json:"duplicate_ratings"`

	Rows int `json:"rows"`
	Cols int `json:"cols"`

	LoadDuration  time.Duration `json:"load_duration"`
	BuildDuration time.Duration `json:"build_duration"`
}
