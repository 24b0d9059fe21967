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
	"time"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

const productColumns = `id, name, brand, category_id, supermarket, image_url,
	rating, sweetness, saltiness, smell, effectiveness,
	review_count, creator_user_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.CategoryID, &p.Supermarket, &p.ImageURL,
		&p.Rating, &p.Sweetness, &p.Saltiness, &p.Smell, &p.Effectiveness,
		&p.ReviewCount, &p.CreatorUserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) queryProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer closeQuietly(rows)

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// limitClause renders LIMIT/OFFSET. A non-positive limit means no limit.
func limitClause(page catalog.Page) (string, []interface{}) {
	if page.Limit <= 0 {
		return " OFFSET ?", []interface{}{max(page.Offset, 0)}
	}
	return " LIMIT ? OFFSET ?", []interface{}{page.Limit, max(page.Offset, 0)}
}

// CreateProduct inserts p with review_count 1 and writes the creation entry
// to the ratings ledger in the same transaction.
func (db *DB) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	now := db.now()
	created, err := scanProduct(tx.QueryRowContext(ctx, `
		INSERT INTO products (
			name, brand, category_id, supermarket, image_url,
			rating, sweetness, saltiness, smell, effectiveness,
			review_count, creator_user_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
		RETURNING `+productColumns,
		p.Name, p.Brand, p.CategoryID, p.Supermarket, p.ImageURL,
		p.Rating, p.Sweetness, p.Saltiness, p.Smell, p.Effectiveness,
		p.CreatorUserID, now, now,
	))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, catalog.NewValidationError("product", "values violate catalog constraints")
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	if err := insertRatingEvent(ctx, tx, created.ID, created.CreatorUserID, created.Supermarket,
		created.Aggregate, models.RatingEventCreate, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product: %w", err)
	}
	return created, nil
}

// GetProduct returns the product with id or *catalog.NotFoundError.
func (db *DB) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	p, err := scanProduct(db.conn.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ProductNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

// SearchByName is the case-insensitive substring match used by the matcher.
func (db *DB) SearchByName(ctx context.Context, fragment string, page catalog.Page) ([]models.Product, error) {
	clause, args := limitClause(page)
	return db.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE contains(lower(name), lower(?)) ORDER BY id"+clause,
		append([]interface{}{fragment}, args...)...)
}

func (db *DB) ListAll(ctx context.Context, page catalog.Page) ([]models.Product, error) {
	clause, args := limitClause(page)
	return db.queryProducts(ctx, "SELECT "+productColumns+" FROM products ORDER BY id"+clause, args...)
}

func (db *DB) ListByCategory(ctx context.Context, categoryID int, page catalog.Page) ([]models.Product, error) {
	clause, args := limitClause(page)
	return db.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE category_id = ? ORDER BY id"+clause,
		append([]interface{}{categoryID}, args...)...)
}

func (db *DB) ListByCreator(ctx context.Context, userID string, page catalog.Page) ([]models.Product, error) {
	clause, args := limitClause(page)
	return db.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE creator_user_id = ? ORDER BY id"+clause,
		append([]interface{}{userID}, args...)...)
}

// CountProducts returns the catalog size.
func (db *DB) CountProducts(ctx context.Context) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func insertRatingEvent(ctx context.Context, tx *sql.Tx, productID int64, rater, supermarket string,
	v models.Aggregate, kind string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO rating_events (
			product_id, rater_user_id, supermarket,
			rating, sweetness, saltiness, smell, effectiveness,
			kind, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		productID, rater, supermarket,
		v.Rating, v.Sweetness, v.Saltiness, v.Smell, v.Effectiveness,
		kind, at,
	)
	if err != nil {
		return fmt.Errorf("failed to append rating event: %w", err)
	}
	return nil
}
