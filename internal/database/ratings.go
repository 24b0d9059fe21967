// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

// ListRatings returns ledger entries for productID, newest first.
func (db *DB) ListRatings(ctx context.Context, productID int64, page catalog.Page) ([]models.RatingEvent, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	clause, args := limitClause(page)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, product_id, rater_user_id, supermarket,
			rating, sweetness, saltiness, smell, effectiveness,
			kind, created_at
		FROM rating_events
		WHERE product_id = ?
		ORDER BY id DESC`+clause,
		append([]interface{}{productID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeQuietly(rows)

	events := make([]models.RatingEvent, 0)
	for rows.Next() {
		var e models.RatingEvent
		if err := rows.Scan(&e.ID, &e.ProductID, &e.RaterUserID, &e.Supermarket,
			&e.Rating, &e.Sweetness, &e.Saltiness, &e.Smell, &e.Effectiveness,
			&e.Kind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return events, nil
}
