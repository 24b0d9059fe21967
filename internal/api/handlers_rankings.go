// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"net/http"
	"time"
)

// Trending returns the most reviewed products. A missing or non-numeric
// limit selects the configured default.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	products, err := h.svc.ListTrending(r.Context(), getIntParam(r, "limit", 0))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products, start)
}

// TopContributors ranks users by the number of products they created.
func (h *Handler) TopContributors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	contributors, err := h.svc.TopContributors(r.Context(), getIntParam(r, "limit", 0))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, contributors, start)
}
