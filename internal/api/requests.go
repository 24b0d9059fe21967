// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pantryrank/internal/catalog"
)

// maxJSONBodyBytes bounds create and rating request bodies.
const maxJSONBodyBytes = 64 << 10

// getIntParam extracts an integer query parameter with a default value.
// Non-numeric values fall back to the default.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// pageParams reads limit and offset. Clamping happens in the service.
func pageParams(r *http.Request) catalog.Page {
	return catalog.Page{
		Limit:  getIntParam(r, "limit", 0),
		Offset: getIntParam(r, "offset", 0),
	}
}

// productIDParam parses the {id} path segment.
func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, catalog.NewValidationError("id", fmt.Sprintf("product id %q must be a positive integer", raw))
	}
	return id, nil
}

// decodeJSON reads a JSON body into dst. Syntax and type errors become a
// ValidationError naming the offending field when known.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var (
			typeErr *json.UnmarshalTypeError
			maxErr  *http.MaxBytesError
		)
		switch {
		case errors.Is(err, io.EOF):
			return catalog.NewValidationError("body", "request body is required")
		case errors.As(err, &maxErr):
			return catalog.NewValidationError("body", "request body is too large")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return catalog.NewValidationError(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
		default:
			return catalog.NewValidationError("body", "request body is not valid JSON")
		}
	}
	return nil
}
