// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/bookshelf/internal/recommend"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed   = "VALIDATION_ERROR"
)

// statusFor maps a recommender error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, recommend.ErrNotReady):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	case errors.Is(err, recommend.ErrInvalidK):
		return http.StatusBadRequest, ErrCodeValidationFailed
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
