// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

// UpsertUser inserts or refreshes a profile. created_at is kept on update.
func (db *DB) UpsertUser(ctx context.Context, u *models.User) error {
	unlock := db.lockRow("user:" + u.ID)
	defer unlock()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	now := db.now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			profile_image_url = excluded.profile_image_url,
			updated_at = excluded.updated_at`,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}

// GetUser returns the profile for id or *catalog.NotFoundError.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var u models.User
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, profile_image_url, created_at, updated_at
		FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.UserNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &u, nil
}
