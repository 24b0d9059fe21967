// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/images"
	"github.com/tomtom215/pantryrank/internal/logging"
)

// uploadField is the multipart field carrying the image.
const uploadField = "image"

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

// UploadImage stores the multipart "image" file and returns its URL.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.images == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Image storage is not configured", nil)
		return
	}
	subject, ok := h.contributingSubject(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.images.MaxBytes()+multipartOverhead)
	file, _, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeServiceError(w, r, images.ErrTooLarge)
			return
		}
		writeServiceError(w, r, catalog.NewValidationError(uploadField, "multipart field \"image\" is required"))
		return
	}
	defer file.Close()

	data, err := h.images.ReadLimited(file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	upload, err := h.images.Put(r.Context(), data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("image_id", upload.ID).
		Int("size", upload.Size).
		Str("user_id", logging.Sanitize(subject.ID)).
		Msg("Image uploaded")
	respondData(w, http.StatusCreated, upload, start)
}

// GetImage serves stored image bytes. Ids are content hashes, so the
// response is immutable.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Image storage is not configured", nil)
		return
	}
	img, err := h.images.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("ETag", strconv.Quote(img.ID))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if match := r.Header.Get("If-None-Match"); match == strconv.Quote(img.ID) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write image")
	}
}
