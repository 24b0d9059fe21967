// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

// MatchProducts lists candidate products for a name the user typed, so the
// client can offer "rate an existing product" before creating a new one.
func (h *Handler) MatchProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	products, err := h.svc.SearchCandidates(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products, start)
}

// CreateProduct adds a product the caller could not find among the
// candidates.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	subject, ok := h.contributingSubject(w, r)
	if !ok {
		return
	}

	var in models.NewProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), in, subject.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, product, start)
}

// SubmitRating merges the caller's rating into an existing product.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	subject, ok := h.contributingSubject(w, r)
	if !ok {
		return
	}
	id, err := productIDParam(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var delta models.RatingDelta
	if err := decodeJSON(w, r, &delta); err != nil {
		writeServiceError(w, r, err)
		return
	}

	product, err := h.svc.SubmitRating(r.Context(), id, delta, subject.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, product, start)
}

// ListProducts returns a page of the whole catalog in id order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	products, err := h.svc.ListAll(r.Context(), pageParams(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products, start)
}

// ListByCategory returns a page of one category.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	raw := chi.URLParam(r, "id")
	categoryID, err := strconv.Atoi(raw)
	if err != nil {
		writeServiceError(w, r, catalog.NewValidationError("category_id", "category_id must be a number"))
		return
	}

	products, err := h.svc.ListByCategory(r.Context(), categoryID, pageParams(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products, start)
}

// SearchProducts returns products whose name contains q.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	products, err := h.svc.SearchByName(r.Context(), r.URL.Query().Get("q"), pageParams(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products, start)
}

// GetProduct returns one product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := productIDParam(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, product, start)
}

// ListRatings returns a product's rating ledger, newest first.
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := productIDParam(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	events, err := h.svc.ListRatings(r.Context(), id, pageParams(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, events, start)
}

// MyProducts returns the products the caller created.
func (h *Handler) MyProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	subject, ok := h.currentSubject(w, r)
	if !ok {
		return
	}
	products, err := h.svc.ListByCreator(r.Context(), subject.ID, pageParams(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products, start)
}
