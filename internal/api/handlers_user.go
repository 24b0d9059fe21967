// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/pantryrank/internal/catalog"
)

// CurrentUser returns the caller's stored profile. A caller who has not
// contributed yet gets the profile carried by their credentials.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	subject, ok := h.currentSubject(w, r)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(r.Context(), subject.ID)
	if errors.Is(err, catalog.ErrNotFound) {
		respondData(w, http.StatusOK, subject.User(), start)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user, start)
}
