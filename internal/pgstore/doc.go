// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package pgstore implements the catalog Store on PostgreSQL.
//
// Queries are built with squirrel using dollar placeholders and run through
// lib/pq. The merge is a single UPDATE whose row lock serializes concurrent
// submissions to the same product; serialization failures and deadlocks are
// reported as *catalog.ConcurrencyError so the service retries them.
//
// Integration tests run against a real server:
//
//	go test -tags integration ./internal/pgstore/...
package pgstore
