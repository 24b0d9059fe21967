// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package metrics defines the Prometheus collectors exported at /metrics.
//
// Collectors are registered on the default registry through promauto, so
// importing the package is enough to expose them. Callers use the Record*
// helpers rather than touching the collectors directly.
package metrics
