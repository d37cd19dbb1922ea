// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package metrics provides Prometheus metrics for the recommender and its HTTP
surface.

Collectors are registered with the default registry through promauto and
exposed by the API at /metrics.

# Available Metrics

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Queries:
  - recommend_queries_total{lookup,outcome}
  - recommend_query_duration_seconds{lookup}
  - recommend_cache_hits_total, recommend_cache_misses_total

Index:
  - recommend_ready
  - recommend_build_duration_seconds
  - recommend_matrix_rows, recommend_matrix_columns

Data preparation:
  - dataset_records{stage}
  - dataset_stage_duration_seconds{stage}

The endpoint label is the chi route pattern, never the raw path, so ISBNs
and titles do not create new series.
*/
package metrics
