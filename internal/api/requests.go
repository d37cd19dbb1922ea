// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/bookshelf/internal/validation"
)

// DefaultBooksLimit is the number of titles /books returns without a limit.
const DefaultBooksLimit = 50

// RecommendationRequest holds the query parameters of a by-title query.
type RecommendationRequest struct {
	Title string `query:"title" validate:"required,max=512"`
	K     int    `query:"k" validate:"gte=1"`
}

// ISBNRecommendationRequest holds the parameters of a by-ISBN query.
type ISBNRecommendationRequest struct {
	ISBN string `query:"isbn" validate:"required,max=32"`
	K    int    `query:"k" validate:"gte=1"`
}

// BooksRequest holds the query parameters of the title listing.
type BooksRequest struct {
	Prefix string `query:"prefix" validate:"max=512"`
	Limit  int    `query:"limit" validate:"gte=1,lte=1000"`
}

var errNotInteger = errors.New("must be an integer")

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errNotInteger
	}
	return v, nil
}

// validateRequest validates req and writes a 400 response on failure.
// It reports whether the handler should continue.
func validateRequest(rw *ResponseWriter, req any) bool {
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		if len(apiErr.Details) == 0 {
			rw.ValidationError(apiErr.Message, nil)
		} else {
			rw.ValidationError(apiErr.Message, apiErr.Details)
		}
		return false
	}
	return true
}

// intParamOrReject parses name and writes a 400 when it is not an integer.
func intParamOrReject(rw *ResponseWriter, r *http.Request, name string, defaultValue int) (int, bool) {
	v, err := intParam(r, name, defaultValue)
	if err != nil {
		rw.ValidationError(name+" "+err.Error(), map[string]any{"field": name, "value": r.URL.Query().Get(name)})
		return 0, false
	}
	return v, true
}
