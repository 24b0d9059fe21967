// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package services adapts PantryRank components to suture's Serve pattern.

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine
and context cancellation triggers Shutdown with a drain timeout.

PeriodicService runs a task on a fixed interval until canceled. A task
error ends Serve so the supervisor restarts it with backoff. Two
constructors cover the storage maintenance jobs:

  - NewCheckpointService flushes the DuckDB WAL into the database file.
  - NewImageGCService reclaims Badger value-log space left by
    overwritten image blobs.
*/
package services
