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
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

// mergeUpdate folds delta into product id. The right-hand sides see the
// pre-update row, and the row lock taken by UPDATE serializes concurrent
// merges of the same product.
func (s *Store) mergeUpdate(id int64, delta models.RatingDelta, now time.Time) sq.UpdateBuilder {
	b := s.sb.Update("products")
	values := catalog.OrderedValues(delta.Values())
	for i, col := range catalog.AggregateColumns {
		b = b.Set(col.Name, sq.Expr(catalog.MeanUpdateExpr(col, "?"), values[i]))
	}
	return b.
		Set("supermarket", sq.Expr("COALESCE(NULLIF(?, ''), supermarket)", delta.Supermarket)).
		Set("review_count", sq.Expr("review_count + 1")).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Suffix(returningProduct())
}

// MergeRating applies delta and appends the ledger entry in one transaction.
func (s *Store) MergeRating(ctx context.Context, id int64, delta models.RatingDelta, raterUserID string) (*models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapWriteError(id, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	updated, err := scanProduct(s.mergeUpdate(id, delta, now).RunWith(tx).QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ProductNotFound(id)
	}
	if err != nil {
		return nil, mapWriteError(id, fmt.Errorf("failed to merge rating into product %d: %w", id, err))
	}

	if _, err := s.insertEvent(id, raterUserID, delta.Supermarket, delta.Values(),
		models.RatingEventMerge, now).RunWith(tx).ExecContext(ctx); err != nil {
		return nil, mapWriteError(id, fmt.Errorf("failed to append rating event: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, mapWriteError(id, fmt.Errorf("failed to commit merge for product %d: %w", id, err))
	}
	return updated, nil
}
