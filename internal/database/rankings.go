// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/pantryrank/internal/models"
)

// ListTrending returns the most reviewed products. Ties keep id order.
func (db *DB) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	return db.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY review_count DESC, id ASC LIMIT ?", limit)
}

// TopContributors ranks creators by the number of products they added.
// Ranks are row numbers over (count desc, user id) so ties get distinct,
// consecutive ranks.
func (db *DB) TopContributors(ctx context.Context, limit int) ([]models.Contributor, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			p.creator_user_id,
			COUNT(*) AS contributions,
			COALESCE(u.email, ''),
			COALESCE(u.first_name, ''),
			COALESCE(u.last_name, ''),
			ROW_NUMBER() OVER (ORDER BY COUNT(*) DESC, p.creator_user_id ASC) AS contributor_rank
		FROM products p
		LEFT JOIN users u ON u.id = p.creator_user_id
		GROUP BY p.creator_user_id, u.email, u.first_name, u.last_name
		ORDER BY contributor_rank
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top contributors: %w", err)
	}
	defer closeQuietly(rows)

	out := make([]models.Contributor, 0, limit)
	for rows.Next() {
		var (
			c                  models.Contributor
			email, first, last string
		)
		if err := rows.Scan(&c.UserID, &c.Contributions, &email, &first, &last, &c.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		c.DisplayName = models.DisplayName(c.UserID, email, first, last)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributors: %w", err)
	}
	return out, nil
}
