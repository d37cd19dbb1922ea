// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package config

import (
	"fmt"

	"github.com/tomtom215/bookshelf/internal/validation"
)

// Validate checks struct tag constraints, then the rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateRateLimit()
}

// validateCache requires a capacity when the cache is on.
func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be positive when CACHE_ENABLED=true")
	}
	return nil
}

// validateRateLimit requires a usable limit unless limiting is disabled.
func (c *Config) validateRateLimit() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive (set DISABLE_RATE_LIMIT=true to turn limiting off)")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}
