// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"context"

	"github.com/tomtom215/pantryrank/internal/models"
)

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// Store is the persistent catalog. Implementations must be safe for
// concurrent use.
//
// Lookups of a missing product or user return *NotFoundError. MergeRating
// must apply the mean update, the review count increment, and the ledger
// append atomically. It may return *ConcurrencyError when a conflicting
// write is detected; the caller retries.
type Store interface {
	// CreateProduct inserts p with ReviewCount 1 and records the creation in
	// the ratings ledger. The store assigns ID and timestamps.
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	MergeRating(ctx context.Context, id int64, delta models.RatingDelta, raterUserID string) (*models.Product, error)

	// SearchByName returns products whose lowercased name contains the
	// lowercased fragment, in id order.
	SearchByName(ctx context.Context, fragment string, page Page) ([]models.Product, error)
	ListAll(ctx context.Context, page Page) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID int, page Page) ([]models.Product, error)
	ListByCreator(ctx context.Context, userID string, page Page) ([]models.Product, error)

	// ListTrending orders by review count descending, then by id.
	ListTrending(ctx context.Context, limit int) ([]models.Product, error)
	// TopContributors counts products per creator, ordered by count
	// descending then user id, with 1-based row-number ranks.
	TopContributors(ctx context.Context, limit int) ([]models.Contributor, error)

	// ListRatings returns a product's ledger entries, newest first.
	ListRatings(ctx context.Context, productID int64, page Page) ([]models.RatingEvent, error)

	UpsertUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)

	Ping(ctx context.Context) error
}
