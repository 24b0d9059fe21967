// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/pantryrank/internal/logging"
)

type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{1, "products catalog", []string{
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL,
			category_id INTEGER NOT NULL CHECK (category_id BETWEEN 1 AND 5),
			supermarket TEXT NOT NULL,
			image_url TEXT NOT NULL,
			rating DOUBLE PRECISION NOT NULL CHECK (rating BETWEEN 0 AND 10),
			sweetness DOUBLE PRECISION NOT NULL CHECK (sweetness BETWEEN 1 AND 10),
			saltiness DOUBLE PRECISION NOT NULL CHECK (saltiness BETWEEN 1 AND 10),
			smell DOUBLE PRECISION NOT NULL CHECK (smell BETWEEN 1 AND 10),
			effectiveness DOUBLE PRECISION NOT NULL CHECK (effectiveness BETWEEN 1 AND 10),
			review_count BIGINT NOT NULL CHECK (review_count >= 1),
			creator_user_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_creator ON products(creator_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_trending ON products(review_count DESC, id)`,
	}},
	{2, "contributor profiles", []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}},
	{3, "ratings ledger", []string{
		`CREATE TABLE IF NOT EXISTS rating_events (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id),
			rater_user_id TEXT NOT NULL,
			supermarket TEXT NOT NULL,
			rating DOUBLE PRECISION NOT NULL,
			sweetness DOUBLE PRECISION NOT NULL,
			saltiness DOUBLE PRECISION NOT NULL,
			smell DOUBLE PRECISION NOT NULL,
			effectiveness DOUBLE PRECISION NOT NULL,
			kind TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rating_events_product ON rating_events(product_id, id DESC)`,
	}},
}

// Migrate applies pending migrations. A transaction-scoped advisory lock
// keeps concurrent instances from migrating at the same time.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := s.applyMigration(ctx, m)
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
		if applied {
			logging.Info().Int("version", m.version).Str("description", m.description).Msg("Applied schema migration")
		}
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(7262687)"); err != nil {
		return false, fmt.Errorf("advisory lock: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", m.version).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	for i, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return false, fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description, applied_at) VALUES ($1, $2, $3)",
		m.version, m.description, s.now()); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}
