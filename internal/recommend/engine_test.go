// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package recommend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookshelf/internal/dataset"
	"github.com/tomtom215/bookshelf/internal/recommend/algorithms"
)

// testMatrix has five rows over three users. "Alpha" labels rows 0 and 4.
//
//	a Alpha [5 0 0]
//	b Beta  [4 0 0]   cos(a,b) = 1
//	c Gamma [0 3 0]   cos(a,c) = 0
//	d Delta [3 4 0]   cos(a,d) = 0.6
//	e Alpha [0 0 2]   cos(a,e) = 0
func testMatrix() *dataset.Matrix {
	return dataset.NewMatrix(
		[]float64{
			5, 0, 0,
			4, 0, 0,
			0, 3, 0,
			3, 4, 0,
			0, 0, 2,
		},
		[]string{"a", "b", "c", "d", "e"},
		[]string{"Alpha", "Beta", "Gamma", "Delta", "Alpha"},
		nil,
		[]int{1, 2, 3},
	)
}

func newTestRecommender(t *testing.T, cfg Config) *Recommender {
	t.Helper()
	r, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func newBuiltRecommender(t *testing.T, cfg Config) *Recommender {
	t.Helper()
	r := newTestRecommender(t, cfg)
	if err := r.Build(context.Background(), testMatrix()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return r
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		r, err := New(DefaultConfig(), zerolog.Nop())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if r.Ready() {
			t.Error("new recommender should not be ready")
		}
		if r.DefaultK() != 10 {
			t.Errorf("DefaultK() = %d, want 10", r.DefaultK())
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultK = 0
		if _, err := New(cfg, zerolog.Nop()); err == nil {
			t.Error("New() with DefaultK=0 should fail")
		}
	})
}

func TestRecommender_Build(t *testing.T) {
	t.Run("nil matrix", func(t *testing.T) {
		r := newTestRecommender(t, DefaultConfig())
		err := r.Build(context.Background(), nil)
		if !errors.Is(err, ErrNotReady) {
			t.Errorf("Build(nil) error = %v, want ErrNotReady", err)
		}
		if r.Status().State != StateUnbuilt {
			t.Errorf("State = %v after failed build, want unbuilt", r.Status().State)
		}
	})

	t.Run("empty matrix", func(t *testing.T) {
		r := newTestRecommender(t, DefaultConfig())
		empty := dataset.NewMatrix(nil, nil, nil, nil, nil)
		if err := r.Build(context.Background(), empty); !errors.Is(err, ErrNotReady) {
			t.Errorf("Build(empty) error = %v, want ErrNotReady", err)
		}
	})

	t.Run("retry after failure", func(t *testing.T) {
		r := newTestRecommender(t, DefaultConfig())
		_ = r.Build(context.Background(), nil)
		if err := r.Build(context.Background(), testMatrix()); err != nil {
			t.Fatalf("Build() after failure error = %v", err)
		}
		if !r.Ready() {
			t.Error("Ready() = false after successful build")
		}
	})

	t.Run("second build", func(t *testing.T) {
		r := newBuiltRecommender(t, DefaultConfig())
		if err := r.Build(context.Background(), testMatrix()); !errors.Is(err, ErrAlreadyBuilt) {
			t.Errorf("second Build() error = %v, want ErrAlreadyBuilt", err)
		}
		if !r.Ready() {
			t.Error("rejected rebuild should leave the recommender ready")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		r := newTestRecommender(t, DefaultConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := r.Build(ctx, testMatrix()); !errors.Is(err, context.Canceled) {
			t.Errorf("Build(canceled) error = %v, want context.Canceled", err)
		}
		if r.Ready() {
			t.Error("canceled build should leave the recommender unbuilt")
		}
	})
}

func TestRecommender_BuildConcurrent(t *testing.T) {
	r := newTestRecommender(t, DefaultConfig())

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Build(context.Background(), testMatrix())
			if err != nil && !errors.Is(err, ErrAlreadyBuilt) {
				t.Errorf("Build() error = %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("%d builds succeeded, want exactly 1", succeeded)
	}
}

func TestRecommender_Recommend(t *testing.T) {
	r := newBuiltRecommender(t, DefaultConfig())

	got, err := r.Recommend(context.Background(), "Alpha", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []Recommendation{
		{Title: "Beta", ISBN: "b", SimilarityScore: 1},
		{Title: "Delta", ISBN: "d", SimilarityScore: 0.6},
		{Title: "Gamma", ISBN: "c", SimilarityScore: 0},
		{Title: "Alpha", ISBN: "e", SimilarityScore: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (rows-1): %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Title != want[i].Title || got[i].ISBN != want[i].ISBN {
			t.Errorf("[%d] = %s/%s, want %s/%s", i, got[i].Title, got[i].ISBN, want[i].Title, want[i].ISBN)
		}
		if !approxEqual(got[i].SimilarityScore, want[i].SimilarityScore) {
			t.Errorf("[%d] score = %v, want %v", i, got[i].SimilarityScore, want[i].SimilarityScore)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].SimilarityScore > got[i-1].SimilarityScore {
			t.Errorf("scores not non-increasing at %d: %v > %v", i, got[i].SimilarityScore, got[i-1].SimilarityScore)
		}
	}
	for _, rec := range got {
		if rec.ISBN == "a" {
			t.Error("result includes the query row")
		}
	}
}

func TestRecommender_RecommendCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultK = 1
	cfg.MaxK = 10
	cfg.Cache.Enabled = false
	r := newBuiltRecommender(t, cfg)

	// Five rows: at most four neighbours exist.
	tests := []struct {
		k    int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 4},
		{5, 4},
		{10, 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("k=%d", tt.k), func(t *testing.T) {
			got, err := r.Recommend(context.Background(), "Beta", tt.k)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRecommender_RecommendErrors(t *testing.T) {
	built := newBuiltRecommender(t, DefaultConfig())
	unbuilt := newTestRecommender(t, DefaultConfig())

	tests := []struct {
		name    string
		r       *Recommender
		title   string
		k       int
		wantErr error
	}{
		{"not ready", unbuilt, "Alpha", 5, ErrNotReady},
		{"not ready beats invalid k", unbuilt, "Alpha", 0, ErrNotReady},
		{"zero k", built, "Alpha", 0, ErrInvalidK},
		{"negative k", built, "Alpha", -3, ErrInvalidK},
		{"k above max", built, "Alpha", DefaultConfig().MaxK + 1, ErrInvalidK},
		{"unknown title", built, "Nonexistent Book", 5, ErrNotFound},
		{"case sensitive title", built, "alpha", 5, ErrNotFound},
		{"empty title", built, "", 5, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.Recommend(context.Background(), tt.title, tt.k)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Errorf("Recommend() = %v, want nil on error", got)
			}
		})
	}

	// Failed queries leave the recommender usable.
	if _, err := built.Recommend(context.Background(), "Alpha", 1); err != nil {
		t.Errorf("Recommend() after failures error = %v", err)
	}
}

func TestRecommender_NotFoundNamesTitle(t *testing.T) {
	r := newBuiltRecommender(t, DefaultConfig())
	_, err := r.Recommend(context.Background(), "Nonexistent Book", 5)
	if err == nil || !strings.Contains(err.Error(), "Nonexistent Book") {
		t.Errorf("error = %v, want it to name the title", err)
	}
}

func TestRecommender_RecommendByISBN(t *testing.T) {
	r := newBuiltRecommender(t, DefaultConfig())

	// Row e shares the title "Alpha" with row a but has different neighbours.
	got, err := r.RecommendByISBN(context.Background(), "e", 2)
	if err != nil {
		t.Fatalf("RecommendByISBN() error = %v", err)
	}
	if len(got) != 2 || got[0].ISBN != "a" || got[1].ISBN != "b" {
		t.Errorf("RecommendByISBN(e) = %+v, want rows a, b (ties in row order)", got)
	}
	for _, rec := range got {
		if rec.SimilarityScore != 0 {
			t.Errorf("score = %v, want 0 for orthogonal rows", rec.SimilarityScore)
		}
	}

	if _, err := r.RecommendByISBN(context.Background(), "zzz", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("RecommendByISBN(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestRecommender_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	r1 := newBuiltRecommender(t, cfg)
	r2 := newBuiltRecommender(t, cfg)

	for _, title := range []string{"Alpha", "Beta", "Gamma", "Delta"} {
		a, err1 := r1.Recommend(context.Background(), title, 4)
		b, err2 := r2.Recommend(context.Background(), title, 4)
		if err1 != nil || err2 != nil {
			t.Fatalf("Recommend(%q) errors = %v, %v", title, err1, err2)
		}
		if fmt.Sprint(a) != fmt.Sprint(b) {
			t.Errorf("Recommend(%q) differs between builds:\n%v\n%v", title, a, b)
		}
	}
}

func TestRecommender_Cache(t *testing.T) {
	r := newBuiltRecommender(t, DefaultConfig())
	ctx := context.Background()

	first, err := r.Recommend(ctx, "Alpha", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	first[0].Title = "mutated"

	second, err := r.Recommend(ctx, "Alpha", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if second[0].Title != "Beta" {
		t.Errorf("cached result was mutated through a returned slice: %+v", second[0])
	}

	third, _ := r.Recommend(ctx, "Alpha", 3)
	if fmt.Sprint(second) != fmt.Sprint(third) {
		t.Errorf("cache hit returned different results:\n%v\n%v", second, third)
	}

	s := r.Status()
	if s.CacheMisses != 1 || s.CacheHits != 2 {
		t.Errorf("cache hits/misses = %d/%d, want 2/1", s.CacheHits, s.CacheMisses)
	}

	// A different k is a different entry.
	if _, err := r.Recommend(ctx, "Alpha", 2); err != nil {
		t.Fatal(err)
	}
	if got := r.Status().CacheMisses; got != 2 {
		t.Errorf("CacheMisses = %d after new k, want 2", got)
	}
}

func TestRecommender_Titles(t *testing.T) {
	r := newTestRecommender(t, DefaultConfig())
	if _, err := r.Titles("", 0); !errors.Is(err, ErrNotReady) {
		t.Errorf("Titles() before build error = %v, want ErrNotReady", err)
	}

	if err := r.Build(context.Background(), testMatrix()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		prefix string
		limit  int
		want   []string
	}{
		{"", 0, []string{"Alpha", "Beta", "Delta", "Gamma"}},
		{"", 2, []string{"Alpha", "Beta"}},
		{"al", 0, []string{"Alpha"}},
		{"x", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := r.Titles(tt.prefix, tt.limit)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Titles(%q, %d) = %v, want %v", tt.prefix, tt.limit, got, tt.want)
			}
		})
	}
}

func TestRecommender_Status(t *testing.T) {
	r := newTestRecommender(t, DefaultConfig())

	s := r.Status()
	if s.State != StateUnbuilt || s.Ready {
		t.Errorf("Status() before build = %+v", s)
	}

	if err := r.Build(context.Background(), testMatrix()); err != nil {
		t.Fatal(err)
	}
	_, _ = r.Recommend(context.Background(), "Alpha", 2)
	_, _ = r.Recommend(context.Background(), "Missing", 2)

	s = r.Status()
	if s.State != StateBuilt || !s.Ready {
		t.Errorf("State, Ready = %v, %v, want built, true", s.State, s.Ready)
	}
	if s.Rows != 5 || s.Cols != 3 {
		t.Errorf("shape = %dx%d, want 5x3", s.Rows, s.Cols)
	}
	if s.Algorithm != "cosine_knn" {
		t.Errorf("Algorithm = %q, want cosine_knn", s.Algorithm)
	}
	if s.BuiltAt.IsZero() {
		t.Error("BuiltAt is zero")
	}
	if s.Queries != 2 || s.Errors != 1 {
		t.Errorf("Queries, Errors = %d, %d, want 2, 1", s.Queries, s.Errors)
	}
}

func TestBuildState_String(t *testing.T) {
	tests := []struct {
		state BuildState
		want  string
	}{
		{StateUnbuilt, "unbuilt"},
		{StateBuilding, "building"},
		{StateBuilt, "built"},
		{BuildState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("BuildState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestRecommender_ConcurrentQueries(t *testing.T) {
	r := newBuiltRecommender(t, DefaultConfig())

	want, err := r.Recommend(context.Background(), "Delta", 4)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				got, err := r.Recommend(context.Background(), "Delta", 4)
				if err != nil {
					t.Errorf("Recommend() error = %v", err)
					return
				}
				if fmt.Sprint(got) != fmt.Sprint(want) {
					t.Errorf("concurrent result differs: %v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRecommender_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(DefaultConfig(), zerolog.New(&buf))
	if err != nil {
		t.Fatal(err)
	}

	_, _ = r.Recommend(context.Background(), "Alpha", 3)

	out := buf.String()
	if !strings.Contains(out, "recommendation query failed") || !strings.Contains(out, `"lookup":"title"`) {
		t.Errorf("log output = %s, want a failure entry with lookup field", out)
	}
}

// jewelSources is ten users each rating "Jewel" 5 and "Other" 3.
func jewelSources() (books, ratings dataset.Source) {
	var rb strings.Builder
	rb.WriteString(`"User-ID";"ISBN";"Book-Rating"` + "\n")
	for u := 1; u <= 10; u++ {
		fmt.Fprintf(&rb, "\"%d\";\"0001\";\"5\"\n\"%d\";\"0002\";\"3\"\n", u, u)
	}
	books = dataset.NewBytesSource("books.csv", []byte(
		`"ISBN";"Book-Title";"Book-Author"`+"\n"+
			`"0001";"Jewel";"Bret Lott"`+"\n"+
			`"0002";"Other";"Someone Else"`+"\n"))
	ratings = dataset.NewBytesSource("ratings.csv", []byte(rb.String()))
	return books, ratings
}

func TestNewFromSources(t *testing.T) {
	t.Run("jewel scenario", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinUserRatings = 1
		cfg.MinBookRatings = 5
		books, ratings := jewelSources()

		r, err := NewFromSources(context.Background(), cfg, books, ratings, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewFromSources() error = %v", err)
		}

		got, err := r.Recommend(context.Background(), "Jewel", 1)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(got) != 1 || got[0].Title != "Other" {
			t.Fatalf("Recommend(Jewel, 1) = %+v, want [Other]", got)
		}
		if !approxEqual(got[0].SimilarityScore, 1) {
			t.Errorf("score = %v, want 1.0 (proportional rating vectors)", got[0].SimilarityScore)
		}

		if s := r.Status(); s.Dataset.RatingsRead != 20 {
			t.Errorf("Status().Dataset.RatingsRead = %d, want 20", s.Dataset.RatingsRead)
		}

		if err := r.BuildFromSources(context.Background(), books, ratings); !errors.Is(err, ErrAlreadyBuilt) {
			t.Errorf("BuildFromSources() after build error = %v, want ErrAlreadyBuilt", err)
		}
	})

	t.Run("reference thresholds filter everything", func(t *testing.T) {
		books, ratings := jewelSources()
		_, err := NewFromSources(context.Background(), DefaultConfig(), books, ratings, zerolog.Nop())
		if !errors.Is(err, ErrNotReady) {
			t.Errorf("NewFromSources() error = %v, want ErrNotReady", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, ratings := jewelSources()
		_, err := NewFromSources(context.Background(), DefaultConfig(),
			dataset.FileSource("/nonexistent/books.csv"), ratings, zerolog.Nop())
		if !errors.Is(err, dataset.ErrDataSource) {
			t.Errorf("NewFromSources() error = %v, want ErrDataSource", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxK = 0
		books, ratings := jewelSources()
		if _, err := NewFromSources(context.Background(), cfg, books, ratings, zerolog.Nop()); err == nil {
			t.Error("NewFromSources() with invalid config should fail")
		}
	})
}

func TestRecommender_RowOutOfRangeNeverSurfaces(t *testing.T) {
	r := newBuiltRecommender(t, DefaultConfig())
	for _, isbn := range []string{"a", "b", "c", "d", "e"} {
		if _, err := r.RecommendByISBN(context.Background(), isbn, 4); errors.Is(err, algorithms.ErrRowOutOfRange) {
			t.Errorf("RecommendByISBN(%s) surfaced ErrRowOutOfRange", isbn)
		}
	}
}
