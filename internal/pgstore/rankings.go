// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package pgstore

import (
	"context"
	"fmt"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

// ListTrending orders by review count descending, then id.
func (s *Store) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	return s.queryProducts(ctx, paginate(s.selectProducts().
		OrderBy("review_count DESC", "id ASC"), catalog.Page{Limit: limit}))
}

// topContributorsQuery ranks creators with row numbers over
// (count desc, user id asc).
func (s *Store) topContributorsQuery(limit int) (string, []interface{}, error) {
	return s.sb.Select(
		"p.creator_user_id",
		"COUNT(*) AS contributions",
		"COALESCE(u.email, '')",
		"COALESCE(u.first_name, '')",
		"COALESCE(u.last_name, '')",
		"ROW_NUMBER() OVER (ORDER BY COUNT(*) DESC, p.creator_user_id ASC) AS contributor_rank",
	).
		From("products p").
		LeftJoin("users u ON u.id = p.creator_user_id").
		GroupBy("p.creator_user_id", "u.email", "u.first_name", "u.last_name").
		OrderBy("contributor_rank").
		Limit(uint64(max(limit, 0))).
		ToSql()
}

func (s *Store) TopContributors(ctx context.Context, limit int) ([]models.Contributor, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query, args, err := s.topContributorsQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build contributors query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top contributors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Contributor, 0, max(limit, 0))
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

// ListRatings returns ledger entries for productID, newest first.
func (s *Store) ListRatings(ctx context.Context, productID int64, page catalog.Page) ([]models.RatingEvent, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := paginate(s.sb.Select(
		"id", "product_id", "rater_user_id", "supermarket",
		"rating", "sweetness", "saltiness", "smell", "effectiveness",
		"kind", "created_at",
	).From("rating_events").
		Where("product_id = ?", productID).
		OrderBy("id DESC"), page).
		RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
