// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package dataset

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrDataSource indicates a source that is missing, unreadable or empty.
	// Initialization cannot continue past it.
	ErrDataSource = errors.New("data source unavailable")

	// ErrMalformedRecord indicates a rating row whose fields cannot be
	// coerced to their types.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrDuplicateRating is returned under DuplicatesReject when a user
	// rated the same ISBN more than once.
	ErrDuplicateRating = errors.New("duplicate rating")

	errEmptySource = errors.New("no data rows")
	errNoHeader    = errors.New("missing header row")
)

// SourceError describes a failure to open or read one of the input sources.
// It matches both ErrDataSource and the underlying cause with errors.Is.
type SourceError struct {
	// Source is the source name (usually the file path).
	Source string
	// Op is the operation that failed: open, read, header.
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("dataset: %s %s: %v", e.Op, e.Source, e.Err)
}

// newSourceError builds a SourceError. A *fs.PathError naming the same path
// is reduced to its cause so the path is printed once.
func newSourceError(source, op string, err error) *SourceError {
	var pe *fs.PathError
	if errors.As(err, &pe) && pe.Path == source {
		err = pe.Err
	}
	return &SourceError{Source: source, Op: op, Err: err}
}

// Unwrap exposes both the ErrDataSource class and the cause.
func (e *SourceError) Unwrap() []error {
	return []error{ErrDataSource, e.Err}
}

// malformed wraps ErrMalformedRecord with the source position.
func malformed(source string, line int, format string, args ...any) error {
	return fmt.Errorf("dataset: %s line %d: %s: %w", source, line, fmt.Sprintf(format, args...), ErrMalformedRecord)
}
