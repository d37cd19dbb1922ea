// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package config provides centralized configuration management for Bookshelf.

Configuration is layered with Koanf v2:

 1. Built-in defaults (defaultConfig)
 2. YAML file: CONFIG_PATH, else config.yaml / config.yml in the working
    directory, else /etc/bookshelf/config.yaml
 3. Environment variables

Only the environment variables listed below are read; anything else in the
environment is ignored.

# Environment Variables

Data files:
  - BOOKS_PATH, RATINGS_PATH: input files
  - DATA_SEPARATOR: field separator (default: ;)
  - DATA_ENCODING: latin1 or utf-8 (default: latin1)

Recommender:
  - MIN_BOOK_RATINGS (default: 100), MIN_USER_RATINGS (default: 10)
  - RECOMMEND_DEFAULT_K (default: 10), RECOMMEND_MAX_K (default: 100)
  - RECOMMEND_DUPLICATES: mean, last, reject (default: mean)
  - RECOMMEND_WORKERS (default: 0 = NumCPU)
  - CACHE_ENABLED, CACHE_CAPACITY, CACHE_TTL

HTTP server:
  - SERVER_ENABLED, HTTP_HOST, HTTP_PORT (default: 8585), HTTP_TIMEOUT
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example config.yaml

	data:
	  books_path: /data/BX-Books.csv
	  ratings_path: /data/BX-Book-Ratings.csv
	recommend:
	  min_book_ratings: 50
	server:
	  enabled: true
	  port: 8585

# Validation

Load validates struct tags through internal/validation and then the rules
that span fields. A failed load returns an error naming the offending key;
the process should not start with it.
*/
package config
