// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package storage opens the catalog store selected by configuration.
//
// The DuckDB store is the default. Setting DB_DRIVER=postgres switches to
// the PostgreSQL store. Either way the store is wrapped in a circuit
// breaker before it reaches the catalog service.
package storage
