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
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

var productColumns = []string{
	"id", "name", "brand", "category_id", "supermarket", "image_url",
	"rating", "sweetness", "saltiness", "smell", "effectiveness",
	"review_count", "creator_user_id", "created_at", "updated_at",
}

func returningProduct() string {
	return "RETURNING " + strings.Join(productColumns, ", ")
}

func scanProduct(row sq.RowScanner) (*models.Product, error) {
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

func (s *Store) selectProducts() sq.SelectBuilder {
	return s.sb.Select(productColumns...).From("products")
}

func paginate(b sq.SelectBuilder, page catalog.Page) sq.SelectBuilder {
	if page.Limit > 0 {
		b = b.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		b = b.Offset(uint64(page.Offset))
	}
	return b
}

func (s *Store) queryProducts(ctx context.Context, b sq.SelectBuilder) ([]models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := b.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

func (s *Store) insertProduct(p *models.Product, now time.Time) sq.InsertBuilder {
	return s.sb.Insert("products").
		SetMap(map[string]interface{}{
			"name":            p.Name,
			"brand":           p.Brand,
			"category_id":     p.CategoryID,
			"supermarket":     p.Supermarket,
			"image_url":       p.ImageURL,
			"rating":          p.Rating,
			"sweetness":       p.Sweetness,
			"saltiness":       p.Saltiness,
			"smell":           p.Smell,
			"effectiveness":   p.Effectiveness,
			"review_count":    1,
			"creator_user_id": p.CreatorUserID,
			"created_at":      now,
			"updated_at":      now,
		}).
		Suffix(returningProduct())
}

func (s *Store) insertEvent(productID int64, rater, supermarket string, v models.Aggregate, kind string, at time.Time) sq.InsertBuilder {
	return s.sb.Insert("rating_events").
		SetMap(map[string]interface{}{
			"product_id":    productID,
			"rater_user_id": rater,
			"supermarket":   supermarket,
			"rating":        v.Rating,
			"sweetness":     v.Sweetness,
			"saltiness":     v.Saltiness,
			"smell":         v.Smell,
			"effectiveness": v.Effectiveness,
			"kind":          kind,
			"created_at":    at,
		})
}

// CreateProduct inserts p and its creation ledger entry in one transaction.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	created, err := scanProduct(s.insertProduct(p, now).RunWith(tx).QueryRowContext(ctx))
	if err != nil {
		return nil, mapWriteError(0, fmt.Errorf("failed to insert product: %w", err))
	}

	if _, err := s.insertEvent(created.ID, created.CreatorUserID, created.Supermarket,
		created.Aggregate, models.RatingEventCreate, now).RunWith(tx).ExecContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to append rating event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product: %w", err)
	}
	return created, nil
}

// GetProduct returns the product with id or *catalog.NotFoundError.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	p, err := scanProduct(s.selectProducts().Where(sq.Eq{"id": id}).RunWith(s.db).QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ProductNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

// SearchByName matches the lowercased fragment anywhere in the lowercased
// name. strpos avoids LIKE wildcard escaping.
func (s *Store) SearchByName(ctx context.Context, fragment string, page catalog.Page) ([]models.Product, error) {
	return s.queryProducts(ctx, paginate(s.selectProducts().
		Where("strpos(lower(name), lower(?)) > 0", fragment).
		OrderBy("id"), page))
}

func (s *Store) ListAll(ctx context.Context, page catalog.Page) ([]models.Product, error) {
	return s.queryProducts(ctx, paginate(s.selectProducts().OrderBy("id"), page))
}

func (s *Store) ListByCategory(ctx context.Context, categoryID int, page catalog.Page) ([]models.Product, error) {
	return s.queryProducts(ctx, paginate(s.selectProducts().
		Where(sq.Eq{"category_id": categoryID}).OrderBy("id"), page))
}

func (s *Store) ListByCreator(ctx context.Context, userID string, page catalog.Page) ([]models.Product, error) {
	return s.queryProducts(ctx, paginate(s.selectProducts().
		Where(sq.Eq{"creator_user_id": userID}).OrderBy("id"), page))
}
