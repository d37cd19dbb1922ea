// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/bookshelf/internal/dataset"
	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/recommend"
)

// Config holds all application configuration.
//
// Configuration is loaded in layers, later layers overriding earlier ones:
//  1. Built-in defaults
//  2. Config file (CONFIG_PATH, or config.yaml in the working directory or
//     /etc/bookshelf)
//  3. Environment variables
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates and describes the two input files.
//
// Environment Variables:
//   - BOOKS_PATH: book metadata file (default: dataset_books/BX-Books.csv)
//   - RATINGS_PATH: rating events file (default: dataset_books/BX-Book-Ratings.csv)
//   - DATA_SEPARATOR: single-character field separator (default: ;)
//   - DATA_ENCODING: latin1 or utf-8 (default: latin1)
type DataConfig struct {
	BooksPath   string `koanf:"books_path" validate:"required"`
	RatingsPath string `koanf:"ratings_path" validate:"required"`
	Separator   string `koanf:"separator" validate:"required,single_rune"`
	Encoding    string `koanf:"encoding" validate:"oneof=latin1 latin-1 iso-8859-1 utf-8 utf8"`
}

// RecommendConfig holds the preparation thresholds and query limits.
//
// Environment Variables:
//   - MIN_BOOK_RATINGS: a book needs more than this many ratings (default: 100)
//   - MIN_USER_RATINGS: a user needs more than this many ratings (default: 10)
//   - RECOMMEND_DEFAULT_K: neighbours returned when k is omitted (default: 10)
//   - RECOMMEND_MAX_K: largest k accepted, above it is a 400 (default: 1000)
//   - RECOMMEND_DUPLICATES: mean, last or reject (default: mean)
//   - RECOMMEND_WORKERS: norm computation goroutines, 0 = NumCPU (default: 0)
type RecommendConfig struct {
	MinBookRatings int    `koanf:"min_book_ratings" validate:"gte=0"`
	MinUserRatings int    `koanf:"min_user_ratings" validate:"gte=0"`
	DefaultK       int    `koanf:"default_k" validate:"gte=1"`
	MaxK           int    `koanf:"max_k" validate:"gtefield=DefaultK"`
	Duplicates     string `koanf:"duplicates" validate:"oneof=mean last reject"`
	Workers        int    `koanf:"workers" validate:"gte=0"`
}

// CacheConfig controls the query result cache.
//
// Environment Variables:
//   - CACHE_ENABLED: cache query results (default: true)
//   - CACHE_CAPACITY: maximum cached results (default: 4096)
//   - CACHE_TTL: entry lifetime, 0 = until evicted (default: 0)
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Capacity int           `koanf:"capacity" validate:"gte=0"`
	TTL      time.Duration `koanf:"ttl" validate:"gte=0"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - SERVER_ENABLED: serve the HTTP API instead of answering one CLI query (default: false)
//   - HTTP_HOST, HTTP_PORT: listen address (default: 0.0.0.0:8585)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: per-IP limit (default: 100 per 1m)
//   - DISABLE_RATE_LIMIT: turn the limiter off (default: false)
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
type ServerConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Address returns the host:port the HTTP server listens on.
func (s *ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RecommenderConfig converts the loaded settings into a recommend.Config.
func (c *Config) RecommenderConfig() recommend.Config {
	enc, _ := dataset.ParseEncoding(c.Data.Encoding)
	dup, _ := dataset.ParseDuplicatePolicy(c.Recommend.Duplicates)

	var sep rune
	for _, r := range c.Data.Separator {
		sep = r
		break
	}

	return recommend.Config{
		MinBookRatings: c.Recommend.MinBookRatings,
		MinUserRatings: c.Recommend.MinUserRatings,
		DefaultK:       c.Recommend.DefaultK,
		MaxK:           c.Recommend.MaxK,
		Duplicates:     dup,
		Separator:      sep,
		Encoding:       enc,
		Workers:        c.Recommend.Workers,
		Cache: recommend.CacheConfig{
			Enabled:  c.Cache.Enabled,
			Capacity: c.Cache.Capacity,
			TTL:      c.Cache.TTL,
		},
	}
}

// LoggerConfig converts the loaded settings into a logging.Config.
func (c *Config) LoggerConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}

// BooksSource returns the configured book metadata source.
func (c *Config) BooksSource() dataset.Source {
	return dataset.FileSource(c.Data.BooksPath)
}

// RatingsSource returns the configured rating events source.
func (c *Config) RatingsSource() dataset.Source {
	return dataset.FileSource(c.Data.RatingsPath)
}
