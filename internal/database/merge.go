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
	"strconv"
	"strings"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

// mergeProductSQL folds one submission into the stored means. SET
// expressions read the pre-update row, so review_count in the mean is the
// old count.
var mergeProductSQL = buildMergeSQL()

func buildMergeSQL() string {
	sets := make([]string, 0, len(catalog.AggregateColumns)+3)
	for _, col := range catalog.AggregateColumns {
		sets = append(sets, col.Name+" = "+catalog.MeanUpdateExpr(col, "?"))
	}
	sets = append(sets,
		"supermarket = COALESCE(NULLIF(?, ''), supermarket)",
		"review_count = review_count + 1",
		"updated_at = ?",
	)
	return "UPDATE products SET " + strings.Join(sets, ", ") +
		" WHERE id = ? RETURNING " + productColumns
}

// MergeRating applies delta to product id. Merges on one product are
// serialized by a per-product mutex; the update and the ledger append share
// a transaction.
func (db *DB) MergeRating(ctx context.Context, id int64, delta models.RatingDelta, raterUserID string) (*models.Product, error) {
	unlock := db.lockRow("product:" + strconv.FormatInt(id, 10))
	defer unlock()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	updated, err := db.mergeTx(ctx, id, delta, raterUserID)
	return updated, mapMergeError(id, err)
}

func (db *DB) mergeTx(ctx context.Context, id int64, delta models.RatingDelta, raterUserID string) (*models.Product, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	now := db.now()
	args := catalog.OrderedValues(delta.Values())
	args = append(args, delta.Supermarket, now, id)

	updated, err := scanProduct(tx.QueryRowContext(ctx, mergeProductSQL, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ProductNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to merge rating into product %d: %w", id, err)
	}

	if err := insertRatingEvent(ctx, tx, id, raterUserID, delta.Supermarket,
		delta.Values(), models.RatingEventMerge, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit merge for product %d: %w", id, err)
	}
	return updated, nil
}
