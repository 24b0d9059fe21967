// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package models

import (
	"time"
)

// APIResponse is the envelope of every HTTP response.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-03-02T10:00:00Z"},
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "rating must be less than or equal to 10",
//	    "details": {"fields": [{"field": "rating", "message": "rating must be less than or equal to 10"}]}
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// APIError is the machine-readable error part of an APIResponse.
//
// Codes used by the API:
//   - VALIDATION_ERROR: malformed or out-of-range input
//   - NOT_FOUND: referenced product or image does not exist
//   - CONFLICT: concurrent updates could not be serialized in time
//   - SERVICE_UNAVAILABLE: storage is unreachable
//   - UNAUTHORIZED: missing or invalid identity
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ImageUpload is returned after storing an uploaded image.
type ImageUpload struct {
	ID          string `json:"id"`
	ImageURL    string `json:"image_url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}
