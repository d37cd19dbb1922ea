// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package logging provides zerolog-based structured logging for Bookshelf.
//
// The process logger is configured once in main from the loaded
// configuration and then handed to each component through its constructor.
// Components never configure logging themselves.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	rec, err := recommend.New(cfg, logging.WithComponent("recommend"))
//
// # Request correlation
//
// HTTP middleware stores a RequestIDs value in the request context.
// ForRequest copies both IDs onto a component logger:
//
//	logging.ForRequest(ctx, logger).Info().Msg("query served")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error, disabled (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// Always terminate log chains with .Msg() or .Send().
package logging
