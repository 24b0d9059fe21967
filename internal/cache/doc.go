// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package cache provides a small thread-safe TTL cache used for the ranking
// views.
//
// Writers invalidate with Clear. Readers that compute a value outside the
// lock should capture Generation first and store with SetIfGeneration, which
// drops the value if a Clear happened in between. This keeps a slow reader
// from re-populating the cache with a ranking computed before a write.
package cache
