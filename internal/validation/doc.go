// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata and is safe for concurrent use. Failures are translated into
// readable messages that name fields the way a caller spells them: the
// query tag for HTTP parameters, the koanf tag for configuration keys, then
// the JSON tag, then the Go field name.
//
// # Usage
//
//	type recommendationQuery struct {
//	    Title string `query:"title" validate:"required,max=512"`
//	    K     int    `query:"k" validate:"gte=0,lte=1000"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Tags
//
//   - single_rune: the string holds exactly one character (CSV separators)
//
// Nested struct fields are reported with a dotted path such as
// "dataset.min_book_ratings".
package validation
