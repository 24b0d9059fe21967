// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package main is the entry point for the PantryRank server.

PantryRank is a community catalog of supermarket products. Users search
for a product by name, rate an existing match or create a new entry, and
every rating folds into the product's running mean. Trending products and
top contributors are served from a short-lived ranking cache.

# Application Architecture

	RootSupervisor ("pantryrank")
	├── StorageSupervisor ("storage-layer")
	│   ├── DuckDB checkpoint (duckdb driver)
	│   └── Image store value-log GC
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: Koanf v2 from defaults, an optional YAML file, .env and
    the environment
 2. Logging: zerolog, with slog bridged for the supervisor
 3. Catalog store: DuckDB (default) or PostgreSQL, migrated on open and
    wrapped in a circuit breaker
 4. Image store: Badger, on disk or in memory
 5. Authentication: HS256 bearer tokens or a trusted proxy header
 6. HTTP router and the supervisor tree

# Development tokens

With AUTH_MODE=jwt the server only verifies tokens. For local testing a
token can be minted with the configured secret:

	./pantryrank -issue-token ana
	curl -H "Authorization: Bearer <token>" -X POST localhost:3857/api/v1/products -d '{...}'

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests, the maintenance services stop, and the stores close
(DuckDB checkpoints first).

# Port 3857

The default port is 3857.
*/
package main
