// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status          string  `json:"status"`
	StoreConnected  bool    `json:"store_connected"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	ImagesAvailable bool    `json:"images_available"`
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, HealthStatus{
		Status:        "alive",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady reports whether the catalog store answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:          "ready",
		StoreConnected:  h.svc.Ping(ctx) == nil,
		UptimeSeconds:   time.Since(h.startTime).Seconds(),
		ImagesAvailable: h.images != nil,
	}
	code := http.StatusOK
	if !status.StoreConnected {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondData(w, code, status, start)
}
