// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/images"
	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/models"
)

// Error codes for API responses
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrCodeUnsupportedMedia   = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData sends a success envelope. Slices get their length in
// metadata.count.
func respondData(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	meta := models.Metadata{
		Timestamp:   time.Now().UTC(),
		QueryTimeMS: time.Since(start).Milliseconds(),
	}
	if n, ok := lengthOf(data); ok {
		meta.Count = &n
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

func lengthOf(data interface{}) (int, bool) {
	switch v := data.(type) {
	case []models.Product:
		return len(v), true
	case []models.Contributor:
		return len(v), true
	case []models.RatingEvent:
		return len(v), true
	case []models.Category:
		return len(v), true
	case []string:
		return len(v), true
	}
	return 0, false
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeAuthError adapts respondError to auth.ErrorWriter.
func writeAuthError(w http.ResponseWriter, _ *http.Request, status int, message string) {
	respondError(w, status, ErrCodeUnauthorized, message, nil)
}

// writeServiceError maps catalog and image errors to a response. Storage
// details are logged, never returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *catalog.ValidationError
		nerr *catalog.NotFoundError
		cerr *catalog.ConcurrencyError
		perr *catalog.PersistenceError
	)
	log := logging.Ctx(r.Context())

	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, ErrCodeValidation, verr.Error(),
			map[string]interface{}{"fields": verr.Fields})

	case errors.As(err, &nerr):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, nerr.Error(), nil)

	case errors.As(err, &cerr):
		log.Warn().Err(err).Int64("product_id", cerr.ProductID).Msg("Rating merge gave up after conflicts")
		respondError(w, http.StatusConflict, ErrCodeConflict, catalog.ConcurrencyUserMessage, nil)

	case errors.Is(err, images.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "image not found", nil)

	case errors.Is(err, images.ErrInvalidID), errors.Is(err, images.ErrEmpty):
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)

	case errors.Is(err, images.ErrTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, err.Error(), nil)

	case errors.Is(err, images.ErrUnsupportedType):
		respondError(w, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, err.Error(), nil)

	case catalog.IsCanceled(err):
		// The client is gone or the deadline passed; nobody reads this body.
		log.Debug().Err(err).Msg("Request canceled")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, catalog.PersistenceUserMessage, nil)

	case errors.As(err, &perr):
		log.Error().Err(err).Str("op", perr.Op).Msg("Storage failure")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, catalog.PersistenceUserMessage, nil)

	default:
		log.Error().Err(err).Msg("Unhandled error")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil)
	}
}
