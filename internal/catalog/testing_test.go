// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/pantryrank/internal/models"
)

// flakyStore wraps a MemoryStore and injects failures into MergeRating and
// the read paths.
type flakyStore struct {
	*MemoryStore

	mu             sync.Mutex
	mergeConflicts int   // remaining MergeRating calls that conflict
	mergeCalls     int   // total MergeRating calls
	failWith       error // returned by every call when set
	trendingCalls  int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: NewMemoryStore()}
}

func (f *flakyStore) MergeRating(ctx context.Context, id int64, delta models.RatingDelta, rater string) (*models.Product, error) {
	f.mu.Lock()
	f.mergeCalls++
	if f.failWith != nil {
		err := f.failWith
		f.mu.Unlock()
		return nil, err
	}
	if f.mergeConflicts > 0 {
		f.mergeConflicts--
		f.mu.Unlock()
		return nil, &ConcurrencyError{ProductID: id, Err: errors.New("transaction conflict")}
	}
	f.mu.Unlock()
	return f.MemoryStore.MergeRating(ctx, id, delta, rater)
}

func (f *flakyStore) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	f.mu.Lock()
	f.trendingCalls++
	err := f.failWith
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.MemoryStore.ListTrending(ctx, limit)
}

func (f *flakyStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	err := f.failWith
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.MemoryStore.GetProduct(ctx, id)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.MergeRetryBackoff = time.Microsecond
	return opts
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	svc := NewService(store, testOptions())
	t.Cleanup(svc.Close)
	return svc
}

func productInput(name string, rating float64) models.NewProductInput {
	return models.NewProductInput{
		Name:        name,
		Brand:       "Hacendado",
		CategoryID:  1,
		Supermarket: "Mercadona",
		ImageURL:    "/api/v1/images/test",
		Rating:      models.Score(rating),
	}
}

func mustCreate(t *testing.T, svc *Service, name string, rating float64, creator string) *models.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), productInput(name, rating), creator)
	if err != nil {
		t.Fatalf("CreateProduct(%q): %v", name, err)
	}
	return p
}
