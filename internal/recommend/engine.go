// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookshelf/internal/cache"
	"github.com/tomtom215/bookshelf/internal/dataset"
	"github.com/tomtom215/bookshelf/internal/metrics"
	"github.com/tomtom215/bookshelf/internal/recommend/algorithms"
)

// Lookup kinds, used as the metrics label.
const (
	lookupTitle = "title"
	lookupISBN  = "isbn"
)

// Recommender answers "books similar to this one" queries over a rating
// matrix. It moves from unbuilt to built exactly once; after that it is
// read-only and safe for concurrent use.
type Recommender struct {
	cfg    Config
	logger zerolog.Logger

	state   atomic.Int32
	current atomic.Pointer[built]

	// nil when caching is disabled
	cache *cache.LRU[cacheKey, []Recommendation]

	queries     atomic.Int64
	errorCount  atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// built is the immutable serving state published by Build.
type built struct {
	matrix        *dataset.Matrix
	index         algorithms.Index
	builtAt       time.Time
	buildDuration time.Duration
}

type cacheKey struct {
	row, k int
}

// New creates an unbuilt Recommender.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (*Recommender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r := &Recommender{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Cache.Enabled {
		r.cache = cache.NewLRU[cacheKey, []Recommendation](cfg.Cache.Capacity, cfg.Cache.TTL)
	}
	return r, nil
}

// NewFromSources prepares the matrix from the two sources and builds a
// Recommender over it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFromSources(ctx context.Context, cfg Config, books, ratings dataset.Source, logger zerolog.Logger) (*Recommender, error) {
	r, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := r.BuildFromSources(ctx, books, ratings); err != nil {
		return nil, err
	}
	return r, nil
}

// BuildFromSources runs the preparation pipeline over books and ratings and
// builds the index over the resulting matrix.
func (r *Recommender) BuildFromSources(ctx context.Context, books, ratings dataset.Source) error {
	if BuildState(r.state.Load()) == StateBuilt {
		return ErrAlreadyBuilt
	}

	m, err := dataset.Prepare(ctx, books, ratings, r.cfg.DatasetOptions(), r.logger)
	if err != nil {
		return err
	}
	metrics.RecordPreparation(m.Stats())

	return r.Build(ctx, m)
}

// Build fits the neighbour index over m and starts serving queries.
func (r *Recommender) Build(ctx context.Context, m *dataset.Matrix) error {
	if !r.state.CompareAndSwap(int32(StateUnbuilt), int32(StateBuilding)) {
		r.logger.Error().Err(ErrAlreadyBuilt).Msg("build rejected")
		return ErrAlreadyBuilt
	}

	b, err := r.build(ctx, m)
	if err != nil {
		r.state.Store(int32(StateUnbuilt))
		r.logger.Error().Err(err).Msg("build failed")
		return err
	}

	r.current.Store(b)
	r.state.Store(int32(StateBuilt))
	metrics.RecordBuild(m.Rows(), m.Cols(), b.buildDuration)

	r.logger.Info().
		Int("rows", m.Rows()).
		Int("cols", m.Cols()).
		Str("algorithm", b.index.Name()).
		Dur("duration", b.buildDuration).
		Msg("recommender built")
	return nil
}

func (r *Recommender) build(ctx context.Context, m *dataset.Matrix) (*built, error) {
	if m.Empty() {
		return nil, fmt.Errorf("recommend: matrix has no rows or columns: %w", ErrNotReady)
	}

	start := time.Now()
	index := algorithms.NewCosineKNN(algorithms.KNNConfig{NumWorkers: r.cfg.Workers})
	if err := index.Fit(ctx, m); err != nil {
		return nil, fmt.Errorf("recommend: fit %s: %w", index.Name(), err)
	}

	return &built{
		matrix:        m,
		index:         index,
		builtAt:       time.Now(),
		buildDuration: time.Since(start),
	}, nil
}

// Ready reports whether Build has succeeded.
func (r *Recommender) Ready() bool {
	return r.current.Load() != nil
}

// DefaultK returns the configured neighbour count for callers that omit k.
func (r *Recommender) DefaultK() int {
	return r.cfg.DefaultK
}

// Recommend returns the k books most similar to the book titled title,
// most similar first. When several rows share the title, the first row is
// used; RecommendByISBN selects a specific edition.
func (r *Recommender) Recommend(ctx context.Context, title string, k int) ([]Recommendation, error) {
	return r.recommend(ctx, lookupTitle, title, k, func(m *dataset.Matrix) (int, bool) {
		return m.LookupTitle(title)
	})
}

// RecommendByISBN is Recommend keyed by ISBN.
func (r *Recommender) RecommendByISBN(ctx context.Context, isbn string, k int) ([]Recommendation, error) {
	return r.recommend(ctx, lookupISBN, isbn, k, func(m *dataset.Matrix) (int, bool) {
		return m.LookupISBN(isbn)
	})
}

func (r *Recommender) recommend(ctx context.Context, lookup, key string, k int, find func(*dataset.Matrix) (int, bool)) ([]Recommendation, error) {
	start := time.Now()
	r.queries.Add(1)

	logger := r.logger.With().Str("lookup", lookup).Str("key", key).Int("k", k).Logger()

	recs, err := r.query(ctx, key, k, find)
	metrics.RecordQuery(lookup, outcome(err), time.Since(start))
	if err != nil {
		r.errorCount.Add(1)
		logger.Warn().Err(err).Msg("recommendation query failed")
		return nil, err
	}

	logger.Debug().
		Int("returned", len(recs)).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")
	return recs, nil
}

func (r *Recommender) query(ctx context.Context, key string, k int, find func(*dataset.Matrix) (int, bool)) ([]Recommendation, error) {
	b := r.current.Load()
	if b == nil {
		return nil, ErrNotReady
	}
	if k <= 0 || k > r.cfg.MaxK {
		return nil, fmt.Errorf("recommend: k=%d outside 1..%d: %w", k, r.cfg.MaxK, ErrInvalidK)
	}

	row, ok := find(b.matrix)
	if !ok {
		return nil, fmt.Errorf("recommend: %q: %w", key, ErrNotFound)
	}

	ck := cacheKey{row: row, k: k}
	if recs, ok := r.cacheGet(ck); ok {
		return recs, nil
	}

	neighbors, err := b.index.Neighbors(ctx, row, k)
	if err != nil {
		return nil, fmt.Errorf("recommend: neighbours of row %d: %w", row, err)
	}

	recs := make([]Recommendation, len(neighbors))
	for i, n := range neighbors {
		recs[i] = Recommendation{
			Title:           b.matrix.Title(n.Row),
			ISBN:            b.matrix.ISBN(n.Row),
			SimilarityScore: n.Similarity(),
		}
	}

	r.cacheAdd(ck, recs)
	return recs, nil
}

// cacheGet returns a copy so callers cannot mutate a cached result.
func (r *Recommender) cacheGet(key cacheKey) ([]Recommendation, bool) {
	if r.cache == nil {
		return nil, false
	}
	recs, ok := r.cache.Get(key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		r.cacheMisses.Add(1)
		return nil, false
	}
	r.cacheHits.Add(1)
	return append([]Recommendation(nil), recs...), true
}

func (r *Recommender) cacheAdd(key cacheKey, recs []Recommendation) {
	if r.cache == nil {
		return
	}
	r.cache.Add(key, append([]Recommendation(nil), recs...))
}

// Titles returns sorted distinct titles starting with prefix
// (case-insensitive), at most limit of them. limit <= 0 means no limit.
func (r *Recommender) Titles(prefix string, limit int) ([]string, error) {
	b := r.current.Load()
	if b == nil {
		return nil, ErrNotReady
	}
	return b.matrix.Titles(prefix, limit), nil
}

// Status returns a snapshot of the build state and query counters.
func (r *Recommender) Status() Status {
	s := Status{
		State:       BuildState(r.state.Load()),
		Queries:     r.queries.Load(),
		Errors:      r.errorCount.Load(),
		CacheHits:   r.cacheHits.Load(),
		CacheMisses: r.cacheMisses.Load(),
	}

	if b := r.current.Load(); b != nil {
		s.Ready = true
		s.Algorithm = b.index.Name()
		s.Rows, s.Cols = b.matrix.Dims()
		s.BuiltAt = b.builtAt
		s.BuildDuration = b.buildDuration
		s.Dataset = b.matrix.Stats()
	}
	return s
}

// outcome maps a query error to its metrics label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case errors.Is(err, ErrInvalidK):
		return "invalid"
	default:
		return "error"
	}
}
