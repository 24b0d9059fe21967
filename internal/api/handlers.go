// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/pantryrank/internal/auth"
	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/images"
	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/models"
)

// ImageStore stores and serves product images.
type ImageStore interface {
	ReadLimited(r io.Reader) ([]byte, error)
	MaxBytes() int64
	Put(ctx context.Context, data []byte) (*models.ImageUpload, error)
	Get(ctx context.Context, id string) (*images.Image, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	svc       *catalog.Service
	images    ImageStore
	startTime time.Time
}

// NewHandler creates a Handler. images may be nil, in which case upload
// and image routes answer 503.
func NewHandler(svc *catalog.Service, imageStore ImageStore) *Handler {
	return &Handler{
		svc:       svc,
		images:    imageStore,
		startTime: time.Now(),
	}
}

// currentSubject returns the authenticated caller. RequireAuth guarantees a
// subject on the routes that use it.
func (h *Handler) currentSubject(w http.ResponseWriter, r *http.Request) (*auth.Subject, bool) {
	subject := auth.SubjectFromContext(r.Context())
	if subject == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return nil, false
	}
	return subject, true
}

// contributingSubject returns the authenticated caller of a write and
// records their profile.
func (h *Handler) contributingSubject(w http.ResponseWriter, r *http.Request) (*auth.Subject, bool) {
	subject, ok := h.currentSubject(w, r)
	if !ok {
		return nil, false
	}
	if err := h.svc.UpsertUser(r.Context(), subject.User()); err != nil {
		// The profile only feeds display names; the request can proceed.
		logging.Ctx(r.Context()).Warn().Err(err).Str("user_id", logging.Sanitize(subject.ID)).Msg("Failed to record user profile")
	}
	return subject, true
}
