// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDs identify one HTTP request in logs. Request is echoed to the
// client in X-Request-ID and the response envelope; Correlation is a short
// token for following one query through the access log, the recommender
// and the error path.
type RequestIDs struct {
	Request     string
	Correlation string
}

type requestIDsKey struct{}

// NewRequestIDs returns the IDs for a request. An empty requestID is
// replaced by a fresh UUID. The correlation ID is always new.
func NewRequestIDs(requestID string) RequestIDs {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return RequestIDs{
		Request:     requestID,
		Correlation: uuid.NewString()[:8],
	}
}

// WithRequestIDs stores ids in ctx.
func WithRequestIDs(ctx context.Context, ids RequestIDs) context.Context {
	return context.WithValue(ctx, requestIDsKey{}, ids)
}

// RequestIDsFrom returns the IDs stored in ctx, or zero values outside a
// request.
func RequestIDsFrom(ctx context.Context) RequestIDs {
	ids, _ := ctx.Value(requestIDsKey{}).(RequestIDs)
	return ids
}

// ForRequest returns a child of logger carrying the request and correlation
// IDs from ctx. Outside a request it returns logger unchanged.
//
//	logging.ForRequest(r.Context(), h.logger).Warn().Err(err).Msg("query failed")
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ForRequest(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	ids := RequestIDsFrom(ctx)
	if ids == (RequestIDs{}) {
		return logger
	}
	lc := logger.With()
	if ids.Request != "" {
		lc = lc.Str("request_id", ids.Request)
	}
	if ids.Correlation != "" {
		lc = lc.Str("correlation_id", ids.Correlation)
	}
	return lc.Logger()
}
