// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

func (s *Store) upsertUser(u *models.User) sq.InsertBuilder {
	now := s.now()
	return s.sb.Insert("users").
		Columns("id", "email", "first_name", "last_name", "profile_image_url", "created_at", "updated_at").
		Values(u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL, now, now).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = EXCLUDED.updated_at`)
}

// UpsertUser inserts or refreshes a profile, keeping created_at.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := s.upsertUser(u).RunWith(s.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}

// GetUser returns the profile for id or *catalog.NotFoundError.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var u models.User
	err := s.sb.Select("id", "email", "first_name", "last_name", "profile_image_url", "created_at", "updated_at").
		From("users").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.UserNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &u, nil
}
