// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/bookshelf/internal/dataset"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Query Metrics
	RecommendQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total number of neighbour queries by lookup kind and outcome",
		},
		[]string{"lookup", "outcome"}, // lookup: title, isbn; outcome: ok, not_found, not_ready, invalid, error
	)

	RecommendQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Neighbour query duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"lookup"},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of neighbour queries served from cache",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of neighbour queries that missed the cache",
		},
	)

	// Index Build Metrics
	RecommendReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_ready",
			Help: "1 once the neighbour index is built and serving, 0 otherwise",
		},
	)

	RecommendBuildDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_build_duration_seconds",
			Help: "Duration of the last index build in seconds",
		},
	)

	RecommendMatrixRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_matrix_rows",
			Help: "Number of books (rows) in the rating matrix",
		},
	)

	RecommendMatrixCols = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_matrix_columns",
			Help: "Number of users (columns) in the rating matrix",
		},
	)

	// Data Preparation Metrics
	DatasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Records remaining after each data preparation stage",
		},
		[]string{"stage"},
	)

	DatasetStageDuration = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_stage_duration_seconds",
			Help: "Duration of the last data preparation stage in seconds",
		},
		[]string{"stage"}, // load, build
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordQuery records one neighbour query.
func RecordQuery(lookup, outcome string, duration time.Duration) {
	RecommendQueriesTotal.WithLabelValues(lookup, outcome).Inc()
	RecommendQueryDuration.WithLabelValues(lookup).Observe(duration.Seconds())
}

// RecordCacheLookup records a result cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

// RecordBuild records a completed index build.
func RecordBuild(rows, cols int, duration time.Duration) {
	RecommendMatrixRows.Set(float64(rows))
	RecommendMatrixCols.Set(float64(cols))
	RecommendBuildDuration.Set(duration.Seconds())
	RecommendReady.Set(1)
}

// RecordPreparation exports the per-stage counts of a prepared dataset.
func RecordPreparation(s dataset.Stats) {
	DatasetRecords.WithLabelValues("books_read").Set(float64(s.BooksRead))
	DatasetRecords.WithLabelValues("books_kept").Set(float64(s.BooksRead - s.BooksDropped))
	DatasetRecords.WithLabelValues("ratings_read").Set(float64(s.RatingsRead))
	DatasetRecords.WithLabelValues("active_users").Set(float64(s.ActiveUsers))
	DatasetRecords.WithLabelValues("ratings_after_user_filter").Set(float64(s.RatingsAfterUserFilter))
	DatasetRecords.WithLabelValues("frequent_books").Set(float64(s.FrequentBooks))
	DatasetRecords.WithLabelValues("ratings_after_book_filter").Set(float64(s.RatingsAfterBookFilter))
	DatasetRecords.WithLabelValues("ratings_after_join").Set(float64(s.RatingsAfterJoin))
	DatasetRecords.WithLabelValues("duplicate_ratings").Set(float64(s.DuplicateRatings))
	DatasetStageDuration.WithLabelValues("load").Set(s.LoadDuration.Seconds())
	DatasetStageDuration.WithLabelValues("build").Set(s.BuildDuration.Seconds())
}
