// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created := mustCreateProduct(t, db, testProduct("Yogur Natural", "ana", 1))
	if created.ID <= 0 {
		t.Fatalf("ID = %d, want positive", created.ID)
	}
	if created.ReviewCount != 1 {
		t.Errorf("ReviewCount = %d, want 1", created.ReviewCount)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("timestamps not set consistently: %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := db.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Name != "Yogur Natural" || got.Rating != 6 || got.CreatorUserID != "ana" {
		t.Errorf("GetProduct = %+v", got)
	}

	events, err := db.ListRatings(ctx, created.ID, catalog.Page{Limit: 10})
	if err != nil {
		t.Fatalf("ListRatings: %v", err)
	}
	if len(events) != 1 || events[0].Kind != models.RatingEventCreate || events[0].RaterUserID != "ana" {
		t.Errorf("ledger = %+v, want one create event by ana", events)
	}
}

func TestCreateProductAssignsDistinctIDs(t *testing.T) {
	db := setupTestDB(t)

	a := mustCreateProduct(t, db, testProduct("Pan de Molde", "ana", 2))
	b := mustCreateProduct(t, db, testProduct("Pan de Molde", "zoe", 2))
	if a.ID == b.ID {
		t.Errorf("duplicate names must still get distinct ids, both got %d", a.ID)
	}
}

func TestCreateProductRejectsOutOfRange(t *testing.T) {
	db := setupTestDB(t)

	p := testProduct("Galletas", "ana", 1)
	p.Rating = 11
	_, err := db.CreateProduct(context.Background(), p)
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *catalog.ValidationError", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetProduct(context.Background(), 999)
	var nf *catalog.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *catalog.NotFoundError", err)
	}
}

func TestSearchByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	mustCreateProduct(t, db, testProduct("Leche Entera", "ana", 1))
	mustCreateProduct(t, db, testProduct("Leche Desnatada", "ana", 1))
	mustCreateProduct(t, db, testProduct("Café Molido", "zoe", 2))

	tests := []struct {
		fragment string
		want     int
	}{
		{"leche", 2},
		{"LECHE", 2},
		{"ent", 1},
		{"café", 1},
		{"CAFÉ", 1},
		{"xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			got, err := db.SearchByName(ctx, tt.fragment, catalog.Page{Limit: 10})
			if err != nil {
				t.Fatalf("SearchByName: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("SearchByName(%q) returned %d rows, want %d", tt.fragment, len(got), tt.want)
			}
		})
	}
}

func TestListFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i, c := range []struct {
		name, creator string
		category      int
	}{
		{"Leche", "ana", 1},
		{"Pan", "zoe", 2},
		{"Queso", "ana", 1},
		{"Zumo", "zoe", 3},
	} {
		p := mustCreateProduct(t, db, testProduct(c.name, c.creator, c.category))
		if p.ID != int64(i+1) {
			t.Fatalf("product %q id = %d, want %d", c.name, p.ID, i+1)
		}
	}

	all, err := db.ListAll(ctx, catalog.Page{})
	if err != nil || len(all) != 4 {
		t.Fatalf("ListAll = %d rows, err %v", len(all), err)
	}

	page, err := db.ListAll(ctx, catalog.Page{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListAll page: %v", err)
	}
	if len(page) != 2 || page[0].Name != "Pan" || page[1].Name != "Queso" {
		t.Errorf("page = %+v", page)
	}

	dairy, err := db.ListByCategory(ctx, 1, catalog.Page{Limit: 10})
	if err != nil || len(dairy) != 2 {
		t.Errorf("ListByCategory(1) = %d rows, err %v", len(dairy), err)
	}

	mine, err := db.ListByCreator(ctx, "zoe", catalog.Page{Limit: 10})
	if err != nil || len(mine) != 2 {
		t.Errorf("ListByCreator(zoe) = %d rows, err %v", len(mine), err)
	}

	n, err := db.CountProducts(ctx)
	if err != nil || n != 4 {
		t.Errorf("CountProducts = %d, err %v", n, err)
	}
}
