// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package storage

import (
	"context"
	"fmt"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/config"
	"github.com/tomtom215/pantryrank/internal/database"
	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/pgstore"
)

// Backend is an open catalog store.
type Backend struct {
	// Store is breaker-wrapped and ready for catalog.NewService.
	Store catalog.Store

	// DuckDB is set only for the duckdb driver; the supervisor uses it
	// for periodic checkpoints.
	DuckDB *database.DB

	driver string
	close  func() error
}

// Open connects to the configured store and applies pending migrations.
func Open(cfg *config.Config) (*Backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := pgstore.Open(&cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		logging.Info().Str("driver", config.DriverPostgres).Msg("Catalog store opened")
		return &Backend{
			Store:  catalog.NewBreakerStore(pg, catalog.DefaultBreakerSettings(config.DriverPostgres)),
			driver: config.DriverPostgres,
			close:  pg.Close,
		}, nil

	case config.DriverDuckDB, "":
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open duckdb store: %w", err)
		}
		version, err := db.GetCurrentSchemaVersion(context.Background())
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("read schema version: %w", err)
		}
		logging.Info().
			Str("driver", config.DriverDuckDB).
			Str("path", cfg.Database.Path).
			Int("schema_version", version).
			Msg("Catalog store opened")
		return &Backend{
			Store:  catalog.NewBreakerStore(db, catalog.DefaultBreakerSettings(config.DriverDuckDB)),
			DuckDB: db,
			driver: config.DriverDuckDB,
			close:  db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Driver returns the configured driver name.
func (b *Backend) Driver() string {
	return b.driver
}

// Close releases the underlying store. The DuckDB store checkpoints first.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// ServiceOptions derives catalog service options from configuration.
func ServiceOptions(cfg *config.Config) catalog.Options {
	opts := catalog.DefaultOptions()
	opts.MergeMaxAttempts = cfg.Database.MergeMaxAttempts
	opts.MergeRetryBackoff = cfg.Database.MergeRetryBackoff
	opts.DefaultPageSize = cfg.API.DefaultPageSize
	opts.MaxPageSize = cfg.API.MaxPageSize
	opts.TrendingLimit = cfg.API.TrendingLimit
	opts.TopContributorsLimit = cfg.API.TopContributorsLimit
	opts.RankingCacheTTL = cfg.API.RankingCacheTTL
	if cfg.Server.Timeout > 0 {
		opts.OperationTimeout = cfg.Server.Timeout
	}
	return opts
}
