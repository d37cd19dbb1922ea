// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/bookshelf/internal/dataset"
)

// Config contains all configuration for the recommender.
type Config struct {
	// MinBookRatings is the exclusive minimum number of ratings (from
	// active users) a book needs to become a row.
	// Default: 100.
	MinBookRatings int `json:"min_book_ratings"`

	// MinUserRatings is the exclusive minimum number of ratings a user
	// needs to be considered active.
	// Default: 10.
	MinUserRatings int `json:"min_user_ratings"`

	// DefaultK is the neighbour count used when a caller does not ask for one.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK is the largest k a query may ask for. Larger k is ErrInvalidK.
	// Default: 1000.
	MaxK int `json:"max_k"`

	// Duplicates selects how repeated (user, ISBN) ratings are combined.
	// Default: mean.
	Duplicates dataset.DuplicatePolicy `json:"duplicates"`

	// Separator is the field separator of both data files.
	// Default: ';'.
	Separator rune `json:"separator"`

	// Encoding is the text encoding of both data files.
	// Default: latin1.
	Encoding dataset.Encoding `json:"encoding"`

	// Workers is the number of goroutines computing row norms.
	// 0 uses runtime.NumCPU().
	Workers int `json:"workers"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig contains result cache parameters.
type CacheConfig struct {
	// Enabled controls whether query results are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// Capacity is the maximum number of cached results.
	// Default: 4096.
	Capacity int `json:"capacity"`

	// TTL is the cache entry time-to-live. 0 keeps entries until evicted.
	// Default: 0.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with the reference thresholds.
func DefaultConfig() Config {
	return Config{
		MinBookRatings: 100,
		MinUserRatings: 10,
		DefaultK:       10,
		MaxK:           1000,
		Duplicates:     dataset.DuplicatesMean,
		Separator:      ';',
		Encoding:       dataset.EncodingLatin1,
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 4096,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MinBookRatings < 0 {
		return fmt.Errorf("min_book_ratings must be non-negative, got %d", c.MinBookRatings)
	}
	if c.MinUserRatings < 0 {
		return fmt.Errorf("min_user_ratings must be non-negative, got %d", c.MinUserRatings)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k must be >= default_k, got %d < %d", c.MaxK, c.DefaultK)
	}
	if _, err := dataset.ParseDuplicatePolicy(string(c.Duplicates)); err != nil {
		return fmt.Errorf("duplicates: %w", err)
	}
	if _, err := dataset.ParseEncoding(string(c.Encoding)); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if c.Separator == '\n' || c.Separator == '\r' || c.Separator == '"' {
		return fmt.Errorf("separator %q is not usable", c.Separator)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.Cache.Enabled && c.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity must be positive when cache is enabled, got %d", c.Cache.Capacity)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
	}
	return nil
}

// DatasetOptions returns the preparation options derived from c.
func (c *Config) DatasetOptions() dataset.Options {
	// Parse errors are reported by Validate; here they fall back to defaults.
	enc, _ := dataset.ParseEncoding(string(c.Encoding))
	dup, _ := dataset.ParseDuplicatePolicy(string(c.Duplicates))
	return dataset.Options{
		MinBookRatings: c.MinBookRatings,
		MinUserRatings: c.MinUserRatings,
		Separator:      c.Separator,
		Encoding:       enc,
		Duplicates:     dup,
	}
}
