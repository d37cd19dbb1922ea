// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package dataset

import (
	"slices"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is the immutable item-by-user rating matrix.
//
// Row i is the rating vector of ISBN(i) across all users; column j belongs
// to User(j). A Matrix is safe for concurrent reads.
type Matrix struct {
	// dense is nil when the matrix has no rows or no columns, since gonum
	// rejects zero-sized dense matrices.
	dense *mat.Dense

	isbns   []string
	titles  []string
	authors []string
	users   []int

	byISBN  map[string]int
	byTitle map[string]int

	stats Stats
}

func newMatrix(data []float64, isbns, titles, authors []string, users []int) *Matrix {
	m := &Matrix{
		isbns:   isbns,
		titles:  titles,
		authors: authors,
		users:   users,
		byISBN:  make(map[string]int, len(isbns)),
		byTitle: make(map[string]int, len(titles)),
	}
	if len(isbns) > 0 && len(users) > 0 {
		m.dense = mat.NewDense(len(isbns), len(users), data)
	}
	for i, isbn := range isbns {
		m.byISBN[isbn] = i
	}
	for i, title := range titles {
		if _, ok := m.byTitle[title]; !ok {
			m.byTitle[title] = i
		}
	}
	return m
}

// NewMatrix builds a Matrix directly from row-major data. It is intended for
// tests and for callers that prepared ratings elsewhere. data must hold
// len(isbns)*len(users) values; titles and authors are indexed like isbns
// (authors may be nil).
func NewMatrix(data []float64, isbns, titles, authors []string, users []int) *Matrix {
	if len(data) != len(isbns)*len(users) {
		panic("dataset: matrix data does not match its dimensions")
	}
	if len(titles) != len(isbns) {
		panic("dataset: one title is required per row")
	}
	if authors == nil {
		authors = make([]string, len(isbns))
	}
	m := newMatrix(append([]float64(nil), data...),
		append([]string(nil), isbns...),
		append([]string(nil), titles...),
		append([]string(nil), authors...),
		append([]int(nil), users...))
	m.stats.Rows, m.stats.Cols = m.Dims()
	return m
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (rows, cols int) {
	if m == nil {
		return 0, 0
	}
	return len(m.isbns), len(m.users)
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	r, _ := m.Dims()
	return r
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	_, c := m.Dims()
	return c
}

// Empty reports whether the matrix has no rows or no columns.
func (m *Matrix) Empty() bool {
	return m == nil || m.dense == nil
}

// RawRow returns row i as a slice backed by the matrix. Callers must not
// modify it.
func (m *Matrix) RawRow(i int) []float64 {
	if m.dense == nil {
		return nil
	}
	return m.dense.RawRowView(i)
}

// At returns the rating of row i by column j. Absent ratings read as 0.
func (m *Matrix) At(i, j int) float64 {
	return m.dense.At(i, j)
}

// Dense exposes the underlying matrix read-only. It is nil for an empty
// matrix.
func (m *Matrix) Dense() mat.Matrix {
	if m.dense == nil {
		return nil
	}
	return m.dense
}

// ISBN returns the key of row i.
func (m *Matrix) ISBN(i int) string { return m.isbns[i] }

// Title returns the display label of row i.
func (m *Matrix) Title(i int) string { return m.titles[i] }

// Author returns the author of row i.
func (m *Matrix) Author(i int) string { return m.authors[i] }

// User returns the user of column j.
func (m *Matrix) User(j int) int { return m.users[j] }

// Users returns a copy of the column users in order.
func (m *Matrix) Users() []int {
	return append([]int(nil), m.users...)
}

// ISBNs returns a copy of the row keys in order.
func (m *Matrix) ISBNs() []string {
	return append([]string(nil), m.isbns...)
}

// LookupTitle returns the first row labelled with title.
func (m *Matrix) LookupTitle(title string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.byTitle[title]
	return i, ok
}

// LookupISBN returns the row keyed by isbn.
func (m *Matrix) LookupISBN(isbn string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.byISBN[isbn]
	return i, ok
}

// Titles returns the distinct row titles starting with prefix
// (case-insensitive), sorted, at most limit of them. limit <= 0 means no
// limit.
func (m *Matrix) Titles(prefix string, limit int) []string {
	if m == nil {
		return nil
	}
	prefix = strings.ToLower(prefix)
	out := make([]string, 0, len(m.byTitle))
	for title := range m.byTitle {
		if strings.HasPrefix(strings.ToLower(title), prefix) {
			out = append(out, title)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Stats returns the pipeline statistics recorded when the matrix was built.
func (m *Matrix) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	return m.stats
}

// Equal reports whether two matrices have the same labels and cells.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if !slices.Equal(m.isbns, o.isbns) || !slices.Equal(m.titles, o.titles) || !slices.Equal(m.users, o.users) {
		return false
	}
	if m.dense == nil || o.dense == nil {
		return m.dense == nil && o.dense == nil
	}
	return mat.Equal(m.dense, o.dense)
}
