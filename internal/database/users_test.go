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

func TestUpsertUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertUser(ctx, &models.User{ID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first, err := db.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if err := db.UpsertUser(ctx, &models.User{ID: "u1", Email: "b@example.com", FirstName: "Bea"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	second, err := db.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if second.Email != "b@example.com" || second.FirstName != "Bea" {
		t.Errorf("profile not updated: %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed from %v to %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetUser(context.Background(), "ghost")
	var nf *catalog.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *catalog.NotFoundError", err)
	}
}
