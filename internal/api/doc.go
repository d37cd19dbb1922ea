// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package api provides the read-only HTTP surface of the recommender, routed
with Chi.

# Endpoints

	GET /api/v1/recommendations?title=Jewel&k=5
	GET /api/v1/recommendations/isbn/{isbn}?k=5
	GET /api/v1/books?prefix=har&limit=20
	GET /api/v1/status
	GET /api/v1/health/live
	GET /api/v1/health/ready
	GET /metrics

k defaults to the recommender's configured DefaultK. The upper bound is the
recommender's MaxK: a larger k is rejected with 400 VALIDATION_ERROR, never
truncated.

# Response Format

Every endpoint except /metrics answers with the same envelope:

	{
	  "success": true,
	  "data": [{"title": "...", "isbn": "...", "similarity_score": 0.93}],
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 1}
	}

Errors set success to false and fill error.code and error.message:

  - 400 VALIDATION_ERROR: bad query parameters
  - 404 NOT_FOUND: unknown title or ISBN
  - 429 TOO_MANY_REQUESTS: rate limited
  - 503 SERVICE_UNAVAILABLE: the recommender is not built yet
  - 500 INTERNAL_ERROR: anything else

# Middleware

Global: request ID, real IP, panic recovery, CORS. API routes add
per-IP rate limiting (go-chi/httprate), security headers, Prometheus
metrics, gzip compression and access logging.
*/
package api
