// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// cancelCheckEvery is how many rows are read between context checks.
const cancelCheckEvery = 4096

// Column aliases, lower-cased. The Book-Crossing dump uses the hyphenated
// names; exported subsets often use the short ones.
var (
	bookColumns = [][]string{
		{"isbn"},
		{"title", "book-title", "book_title"},
		{"author", "book-author", "book_author"},
	}
	ratingColumns = [][]string{
		{"user", "user-id", "user_id", "userid"},
		{"isbn"},
		{"rating", "book-rating", "book_rating"},
	}
)

// decoder wraps r so that it yields UTF-8 text.
func decoder(r io.Reader, enc Encoding) io.Reader {
	if enc == EncodingUTF8 {
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}

// newCSVReader builds a tolerant CSV reader for one source.
func newCSVReader(r io.Reader, opts Options) *csv.Reader {
	cr := csv.NewReader(decoder(r, opts.Encoding))
	cr.Comma = opts.Separator
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

// resolveColumns maps each wanted column to a header position. If the
// header names every wanted column those positions are used, otherwise
// the first len(wanted) columns are taken in order.
func resolveColumns(header []string, wanted [][]string) ([]int, bool) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := pos[key]; !seen {
			pos[key] = i
		}
	}

	idx := make([]int, len(wanted))
	for i, aliases := range wanted {
		found := -1
		for _, a := range aliases {
			if p, ok := pos[a]; ok {
				found = p
				break
			}
		}
		if found < 0 {
			if len(header) < len(wanted) {
				return nil, false
			}
			for j := range idx {
				idx[j] = j
			}
			return idx, true
		}
		idx[i] = found
	}
	return idx, true
}

// readHeader reads the header row and resolves the wanted columns.
func readHeader(cr *csv.Reader, source string, wanted [][]string) ([]int, error) {
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SourceError{Source: source, Op: "read", Err: errNoHeader}
	}
	if err != nil {
		return nil, newSourceError(source, "read", err)
	}
	cols, ok := resolveColumns(header, wanted)
	if !ok {
		return nil, &SourceError{Source: source, Op: "header", Err: errors.New("too few columns")}
	}
	return cols, nil
}

func maxIndex(cols []int) int {
	m := 0
	for _, c := range cols {
		if c > m {
			m = c
		}
	}
	return m
}

// isParseError reports whether err is a per-record CSV syntax error, as
// opposed to an I/O failure of the underlying reader.
func isParseError(err error) bool {
	var pe *csv.ParseError
	return errors.As(err, &pe)
}

// readBooks loads book metadata, dropping rows with any missing field.
// The first row for an ISBN wins.
func readBooks(ctx context.Context, src Source, opts Options) (map[string]Book, *Stats, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, nil, asSourceError(src.Name(), err)
	}
	defer rc.Close()

	cr := newCSVReader(rc, opts)
	cols, err := readHeader(cr, src.Name(), bookColumns)
	if err != nil {
		return nil, nil, err
	}
	last := maxIndex(cols)

	books := make(map[string]Book)
	stats := &Stats{}
	for n := 0; ; n++ {
		if n%cancelCheckEvery == 0 && ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if isParseError(err) {
				stats.BooksRead++
				stats.BooksDropped++
				continue
			}
			return nil, nil, newSourceError(src.Name(), "read", err)
		}
		stats.BooksRead++

		if len(rec) <= last {
			stats.BooksDropped++
			continue
		}
		b := Book{ISBN: rec[cols[0]], Title: rec[cols[1]], Author: rec[cols[2]]}
		if missing(b.ISBN) || missing(b.Title) || missing(b.Author) {
			stats.BooksDropped++
			continue
		}
		if _, dup := books[b.ISBN]; dup {
			continue
		}
		books[b.ISBN] = b
	}

	if stats.BooksRead == 0 {
		return nil, nil, &SourceError{Source: src.Name(), Op: "read", Err: errEmptySource}
	}
	return books, stats, nil
}

// readRatings loads rating events. Type coercion failures abort the load.
func readRatings(ctx context.Context, src Source, opts Options) ([]Rating, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, asSourceError(src.Name(), err)
	}
	defer rc.Close()

	cr := newCSVReader(rc, opts)
	cols, err := readHeader(cr, src.Name(), ratingColumns)
	if err != nil {
		return nil, err
	}
	last := maxIndex(cols)

	ratings := make([]Rating, 0, 1024)
	rows := 0
	for n := 0; ; n++ {
		if n%cancelCheckEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, malformed(src.Name(), pe.Line, "%v", pe.Err)
			}
			return nil, newSourceError(src.Name(), "read", err)
		}
		rows++
		line, _ := cr.FieldPos(0)

		if len(rec) <= last {
			return nil, malformed(src.Name(), line, "expected %d fields, got %d", last+1, len(rec))
		}

		user, err := strconv.Atoi(strings.TrimSpace(rec[cols[0]]))
		if err != nil {
			return nil, malformed(src.Name(), line, "user %q is not an integer", rec[cols[0]])
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[2]]), 64)
		if err != nil {
			return nil, malformed(src.Name(), line, "rating %q is not a number", rec[cols[2]])
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, malformed(src.Name(), line, "rating %q is not finite", rec[cols[2]])
		}

		isbn := rec[cols[1]]
		if missing(isbn) {
			continue
		}
		ratings = append(ratings, Rating{User: user, ISBN: isbn, Rating: value})
	}

	if rows == 0 {
		return nil, &SourceError{Source: src.Name(), Op: "read", Err: errEmptySource}
	}
	return ratings, nil
}

func missing(field string) bool {
	return strings.TrimSpace(field) == ""
}

// asSourceError makes sure open failures from any Source implementation
// carry the ErrDataSource class.
func asSourceError(name string, err error) error {
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return newSourceError(name, "open", err)
}
