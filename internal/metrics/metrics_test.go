// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/bookshelf/internal/dataset"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))

	RecordAPIRequest("GET", "/api/v1/recommendations", "200", 12*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/recommendations", "200", 3*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))
	if after-before != 2 {
		t.Errorf("api_requests_total grew by %v, want 2", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordQuery(t *testing.T) {
	tests := []struct {
		lookup  string
		outcome string
	}{
		{"title", "ok"},
		{"title", "not_found"},
		{"isbn", "ok"},
		{"isbn", "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.lookup+"_"+tt.outcome, func(t *testing.T) {
			c := RecommendQueriesTotal.WithLabelValues(tt.lookup, tt.outcome)
			before := testutil.ToFloat64(c)
			RecordQuery(tt.lookup, tt.outcome, time.Millisecond)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("counter grew by %v, want 1", got)
			}
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(RecommendCacheHits)
	misses := testutil.ToFloat64(RecommendCacheMisses)

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	if got := testutil.ToFloat64(RecommendCacheHits) - hits; got != 1 {
		t.Errorf("hits grew by %v, want 1", got)
	}
	if got := testutil.ToFloat64(RecommendCacheMisses) - misses; got != 2 {
		t.Errorf("misses grew by %v, want 2", got)
	}
}

func TestRecordBuild(t *testing.T) {
	RecordBuild(731, 888, 1500*time.Millisecond)

	if got := testutil.ToFloat64(RecommendMatrixRows); got != 731 {
		t.Errorf("recommend_matrix_rows = %v, want 731", got)
	}
	if got := testutil.ToFloat64(RecommendMatrixCols); got != 888 {
		t.Errorf("recommend_matrix_columns = %v, want 888", got)
	}
	if got := testutil.ToFloat64(RecommendBuildDuration); got != 1.5 {
		t.Errorf("recommend_build_duration_seconds = %v, want 1.5", got)
	}
	if got := testutil.ToFloat64(RecommendReady); got != 1 {
		t.Errorf("recommend_ready = %v, want 1", got)
	}
}

func TestRecordPreparation(t *testing.T) {
	RecordPreparation(dataset.Stats{
		BooksRead:        100,
		BooksDropped:     4,
		RatingsRead:      1000,
		RatingsAfterJoin: 250,
		LoadDuration:     2 * time.Second,
	})

	if got := testutil.ToFloat64(DatasetRecords.WithLabelValues("books_kept")); got != 96 {
		t.Errorf("books_kept = %v, want 96", got)
	}
	if got := testutil.ToFloat64(DatasetRecords.WithLabelValues("ratings_after_join")); got != 250 {
		t.Errorf("ratings_after_join = %v, want 250", got)
	}
	if got := testutil.ToFloat64(DatasetStageDuration.WithLabelValues("load")); got != 2 {
		t.Errorf("load duration = %v, want 2", got)
	}
}

func TestMetricGathering(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
