// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package dataset

import (
	"bytes"
	"io"
	"os"
)

// Source is a named, re-openable tabular input.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string

	// Open returns a fresh reader positioned at the start of the data.
	Open() (io.ReadCloser, error)
}

// FileSource reads a file from disk.
type FileSource string

// Name returns the file path.
func (f FileSource) Name() string { return string(f) }

// Open opens the file. Failures are reported as *SourceError.
func (f FileSource) Open() (io.ReadCloser, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, newSourceError(string(f), "open", err)
	}
	return file, nil
}

// BytesSource serves an in-memory copy of a source. It can be opened any
// number of times.
type BytesSource struct {
	name string
	data []byte
}

// NewBytesSource creates a BytesSource.
func NewBytesSource(name string, data []byte) *BytesSource {
	return &BytesSource{name: name, data: data}
}

// Name returns the source name.
func (b *BytesSource) Name() string { return b.name }

// Open returns a reader over the data.
func (b *BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}
