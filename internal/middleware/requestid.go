// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package middleware

import (
	"context"
	"net/http"

	"github.com/tomtom215/bookshelf/internal/logging"
)

type contextKey string

// RequestIDKey is the context key holding the request ID.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader is the header carrying the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds IDs accepted from upstream proxies.
const maxRequestIDLength = 128

// RequestID middleware generates a unique ID for each request
// and adds it to both the response header and request context.
// It also populates request_id and correlation_id for the logging package.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Keep an ID set by an upstream proxy.
		upstream := r.Header.Get(RequestIDHeader)
		if len(upstream) > maxRequestIDLength {
			upstream = ""
		}
		ids := logging.NewRequestIDs(upstream)

		w.Header().Set(RequestIDHeader, ids.Request)

		ctx := context.WithValue(r.Context(), RequestIDKey, ids.Request)
		ctx = logging.WithRequestIDs(ctx, ids)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
