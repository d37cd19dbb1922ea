// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package cache provides a thread-safe, generic LRU cache with optional TTL.

The recommender uses it to memoise neighbour queries. Its index is immutable
once built, so a cached result stays valid for the life of the process and
the TTL only bounds memory held by cold entries.

# Usage Example

	c := cache.NewLRU[queryKey, []Recommendation](4096, 10*time.Minute)

	if recs, ok := c.Get(key); ok {
	    return recs
	}
	recs := compute()
	c.Add(key, recs)

# Statistics

Stats reports hits, misses, evictions and the current size. HitRate is a
percentage.
*/
package cache
