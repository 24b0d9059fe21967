// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package testinfra provides PostgreSQL instances for integration tests.
//
// StartPostgres prefers a throwaway container started with testcontainers-go.
// When Docker is not available it falls back to an embedded PostgreSQL
// binary downloaded by embedded-postgres, so the pgstore integration suite
// also runs on developer machines without Docker.
//
//	func TestStoreIntegration(t *testing.T) {
//	    dsn := testinfra.StartPostgres(t)
//	    store, err := pgstore.Open(&config.PostgresConfig{DSN: dsn})
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer store.Close()
//	    // ...
//	}
//
// All files carry the integration build tag:
//
//	go test -tags integration ./internal/pgstore/...
//
// The first run downloads the postgres image or binaries. Later runs use
// the local cache.
package testinfra
