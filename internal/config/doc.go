// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package config loads PantryRank configuration.

Configuration is layered with koanf. Each layer overrides the one before it:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file found via CONFIG_PATH or DefaultConfigPaths
 3. Environment variables mapped through envTransformFunc

A .env file in the working directory, if present, is read into the process
environment before the environment layer is applied. Variables already set in
the environment win over the .env file.

# Environment Variables

Database:
  - DB_DRIVER: duckdb (default) or postgres
  - DUCKDB_PATH: DuckDB file path (default: /data/pantryrank.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_THREADS: DuckDB worker threads (default: NumCPU)
  - MERGE_MAX_ATTEMPTS: attempts for a conflicting rating merge (default: 3)
  - MERGE_RETRY_BACKOFF: first retry delay, doubled per attempt (default: 1ms)
  - POSTGRES_DSN: connection string, required when DB_DRIVER=postgres

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:3857)
  - HTTP_TIMEOUT: request timeout (default: 30s)
  - ENVIRONMENT: development or production

Security:
  - AUTH_MODE: jwt (default) or proxy
  - JWT_SECRET: HMAC secret, at least 32 characters in jwt mode
  - PROXY_USER_HEADER: identity header set by the fronting proxy
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - WRITE_RATE_LIMIT_REQUESTS: stricter limit on product and rating writes
  - CORS_ORIGINS: comma-separated allowed origins

Images:
  - IMAGES_PATH, IMAGES_IN_MEMORY, MAX_UPLOAD_BYTES, PUBLIC_BASE_URL

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
*/
package config
