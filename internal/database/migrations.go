// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/pantryrank/internal/logging"
)

// Migration is one schema version. Statements run in order inside a single
// transaction together with the schema_migrations bookkeeping row.
type Migration struct {
	Version     int
	Description string
	Statements  []string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL
)`

// migrations must stay append-only; applied versions are never re-run.
var migrations = []Migration{
	{
		Version:     1,
		Description: "products catalog",
		Statements: []string{
			`CREATE SEQUENCE IF NOT EXISTS products_id_seq START 1`,
			`CREATE TABLE IF NOT EXISTS products (
				id BIGINT PRIMARY KEY DEFAULT nextval('products_id_seq'),
				name TEXT NOT NULL,
				brand TEXT NOT NULL,
				category_id INTEGER NOT NULL CHECK (category_id BETWEEN 1 AND 5),
				supermarket TEXT NOT NULL,
				image_url TEXT NOT NULL,
				rating DOUBLE NOT NULL CHECK (rating BETWEEN 0 AND 10),
				sweetness DOUBLE NOT NULL CHECK (sweetness BETWEEN 1 AND 10),
				saltiness DOUBLE NOT NULL CHECK (saltiness BETWEEN 1 AND 10),
				smell DOUBLE NOT NULL CHECK (smell BETWEEN 1 AND 10),
				effectiveness DOUBLE NOT NULL CHECK (effectiveness BETWEEN 1 AND 10),
				review_count BIGINT NOT NULL CHECK (review_count >= 1),
				creator_user_id TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
			`CREATE INDEX IF NOT EXISTS idx_products_creator ON products(creator_user_id)`,
		},
	},
	{
		Version:     2,
		Description: "contributor profiles",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL DEFAULT '',
				first_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT '',
				profile_image_url TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
		},
	},
	{
		Version:     3,
		Description: "ratings ledger",
		Statements: []string{
			`CREATE SEQUENCE IF NOT EXISTS rating_events_id_seq START 1`,
			`CREATE TABLE IF NOT EXISTS rating_events (
				id BIGINT PRIMARY KEY DEFAULT nextval('rating_events_id_seq'),
				product_id BIGINT NOT NULL,
				rater_user_id TEXT NOT NULL,
				supermarket TEXT NOT NULL,
				rating DOUBLE NOT NULL,
				sweetness DOUBLE NOT NULL,
				saltiness DOUBLE NOT NULL,
				smell DOUBLE NOT NULL,
				effectiveness DOUBLE NOT NULL,
				kind TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_rating_events_product ON rating_events(product_id)`,
		},
	},
}

// schemaContext bounds the whole migration run.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) runVersionedMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	current, err := db.currentSchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		logging.Info().Int("version", m.Version).Str("description", m.Description).Msg("Applied schema migration")
	}
	return nil
}

func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer rollbackQuietly(tx)

	for i, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
		m.Version, m.Description, db.now()); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	return tx.Commit()
}

func (db *DB) currentSchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	if err := db.conn.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// GetCurrentSchemaVersion returns the highest applied migration version.
func (db *DB) GetCurrentSchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	return db.currentSchemaVersion(ctx)
}

// LatestSchemaVersion is the version a fully migrated database reports.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}
