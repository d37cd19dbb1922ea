// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// HTTPServer is the part of *http.Server the API service drives.
type HTTPServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// APIService serves the recommendation API under suture.
//
// It binds the listener itself. An address that cannot be bound stops the
// whole tree, since restarting will not free the port. A server that dies
// after binding is restarted by suture. Canceling the Serve context shuts
// the server down gracefully, waiting up to the shutdown timeout for
// in-flight queries.
//
//	svc := services.NewAPIService(cfg.Server.Address(), server, logger)
//	tree.AddAPIService(svc.WithShutdownTimeout(10 * time.Second))
type APIService struct {
	addr            string
	server          HTTPServer
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	bound           atomic.Pointer[string]
}

// NewAPIService creates the service for server listening on addr.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAPIService(addr string, server HTTPServer, logger zerolog.Logger) *APIService {
	return &APIService{
		addr:            addr,
		server:          server,
		shutdownTimeout: 10 * time.Second,
		logger:          logger.With().Str("service", "api").Logger(),
	}
}

// WithShutdownTimeout bounds graceful shutdown. Non-positive values are
// ignored.
func (s *APIService) WithShutdownTimeout(d time.Duration) *APIService {
	if d > 0 {
		s.shutdownTimeout = d
	}
	return s
}

// Addr returns the address the listener is bound to, or "" before the
// first successful bind. With port 0 this is the port actually chosen.
func (s *APIService) Addr() string {
	if a := s.bound.Load(); a != nil {
		return *a
	}
	return ""
}

// Serve implements suture.Service.
func (s *APIService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.logger.Error().Err(err).Str("addr", s.addr).Msg("cannot bind api listener")
		return fmt.Errorf("api listen %s: %w: %w", s.addr, err, suture.ErrTerminateSupervisorTree)
	}
	addr := ln.Addr().String()
	s.bound.Store(&addr)
	s.logger.Info().Str("addr", addr).Msg("api listening")

	served := make(chan error, 1)
	go func() { served <- s.server.Serve(ln) }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			// Shut down elsewhere; a closed server cannot serve again.
			return suture.ErrDoNotRestart
		}
		s.logger.Warn().Err(err).Msg("api server stopped unexpectedly")
		return fmt.Errorf("api serve: %w", err)

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	<-served
	s.logger.Info().Msg("api stopped")
	return ctx.Err()
}

// String names the service in supervisor events.
func (s *APIService) String() string {
	return "api"
}
