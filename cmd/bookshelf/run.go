// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/bookshelf/internal/api"
	"github.com/tomtom215/bookshelf/internal/config"
	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/recommend"
	"github.com/tomtom215/bookshelf/internal/supervisor"
	"github.com/tomtom215/bookshelf/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// options are the command-line flags.
type options struct {
	configPath string
	title      string
	k          int
	serve      bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("bookshelf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default: CONFIG_PATH or ./config.yaml)")
	fs.StringVar(&opts.title, "title", "Jewel", "book title to recommend from")
	fs.IntVar(&opts.k, "k", 5, "number of recommendations")
	fs.BoolVar(&opts.serve, "serve", false, "run the HTTP API instead of a single query")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// run is main without the process exit, so it can be driven from tests.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	lc := cfg.LoggerConfig()
	lc.Version = version
	logging.Init(lc)

	logging.Info().
		Str("books", cfg.Data.BooksPath).
		Str("ratings", cfg.Data.RatingsPath).
		Int("min_book_ratings", cfg.Recommend.MinBookRatings).
		Int("min_user_ratings", cfg.Recommend.MinUserRatings).
		Msg("configuration loaded")

	if opts.serve || cfg.Server.Enabled {
		return serve(ctx, cfg)
	}
	return query(ctx, cfg, opts.title, opts.k, stdout)
}

// query builds the index in the foreground and prints one result list.
func query(ctx context.Context, cfg *config.Config, title string, k int, w io.Writer) error {
	logger := logging.WithComponent("recommend")

	rec, err := recommend.NewFromSources(ctx, cfg.RecommenderConfig(), cfg.BooksSource(), cfg.RatingsSource(), logger)
	if err != nil {
		return fmt.Errorf("build recommender: %w", err)
	}

	recs, err := rec.Recommend(ctx, title, k)
	if err != nil {
		return err
	}
	return printRecommendations(w, title, recs)
}

func printRecommendations(w io.Writer, title string, recs []recommend.Recommendation) error {
	if _, err := fmt.Fprintf(w, "\nRecommendations for: %s\n\n", title); err != nil {
		return err
	}
	for i, r := range recs {
		if _, err := fmt.Fprintf(w, "%d. %s (Score: %.3f)\n", i+1, r.Title, r.SimilarityScore); err != nil {
			return err
		}
	}
	return nil
}

// serve runs the index build and the HTTP API under the supervisor tree
// until ctx is canceled.
func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.WithComponent("recommend")

	rec, err := recommend.New(cfg.RecommenderConfig(), logger)
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.Logger()), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	handler := api.NewHandler(rec, version, logging.Logger())
	router := api.NewRouter(handler, middlewareConfig(cfg))
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddIndexService(services.NewIndexBuildService(rec, cfg.BooksSource(), cfg.RatingsSource(), logger))
	tree.AddAPIService(services.NewAPIService(server.Addr, server, logging.WithComponent("api")).
		WithShutdownTimeout(10 * time.Second))

	logging.Info().Str("addr", server.Addr).Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// The tree exits once ctx is canceled or a failed index build terminates it.
	var serveErr error
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		serveErr = err
		logging.Error().Err(err).Msg("supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}

	logging.Info().Msg("stopped")
	return serveErr
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mw.RateLimitRequests = cfg.Server.RateLimitReqs
	mw.RateLimitWindow = cfg.Server.RateLimitWindow
	mw.RateLimitDisabled = cfg.Server.RateLimitDisabled
	return mw
}
