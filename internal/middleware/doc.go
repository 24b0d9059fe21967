// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: accepts or generates an X-Request-ID and stores it in the
    request context for logging.Ctx
  - PrometheusMetrics: records request count, latency, and in-flight gauge,
    labelled by the chi route pattern to keep cardinality bounded

Both have the func(http.Handler) http.Handler shape expected by chi.
*/
package middleware
