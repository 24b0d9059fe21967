// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pantryrank/internal/models"
)

// Categories returns the category table.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, models.Categories(), time.Now())
}

// Supermarkets returns the accepted supermarket names.
func (h *Handler) Supermarkets(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, models.Supermarkets(), time.Now())
}
