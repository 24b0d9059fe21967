// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pantryrank_store_query_duration_seconds",
			Help:    "Duration of catalog store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantryrank_store_query_errors_total",
			Help: "Total number of failed catalog store operations",
		},
		[]string{"store", "operation", "error_type"},
	)

	// Catalog metrics
	ProductsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantryrank_products_created_total",
			Help: "Total number of products added to the catalog",
		},
	)

	RatingsMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantryrank_ratings_merged_total",
			Help: "Total number of ratings folded into existing products",
		},
	)

	MergeConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantryrank_merge_conflicts_total",
			Help: "Total number of rating merges that hit a write conflict",
		},
	)

	MergeRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantryrank_merge_retries_total",
			Help: "Total number of rating merge retries after a conflict",
		},
	)

	RankingCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantryrank_ranking_cache_hits_total",
			Help: "Ranking view lookups served from cache",
		},
		[]string{"view"},
	)

	RankingCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantryrank_ranking_cache_misses_total",
			Help: "Ranking view lookups computed from the store",
		},
		[]string{"view"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pantryrank_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantryrank_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Image metrics
	ImagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantryrank_images_stored_total",
			Help: "Total number of product images stored",
		},
	)

	ImageBytesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantryrank_image_bytes_stored_total",
			Help: "Total bytes of product images stored",
		},
	)

	// Import metrics
	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantryrank_import_rows_total",
			Help: "Catalog import rows by outcome",
		},
		[]string{"result"}, // "created", "merged", "failed"
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantryrank_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pantryrank_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pantryrank_api_active_requests",
			Help: "Number of API requests in flight",
		},
	)
)

// RecordStoreQuery records the duration and outcome of a store operation.
// errorType is ignored when err is nil.
func RecordStoreQuery(store, operation string, duration time.Duration, err error, errorType string) {
	StoreQueryDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(store, operation, errorType).Inc()
	}
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRankingLookup counts a ranking view lookup as a hit or miss.
func RecordRankingLookup(view string, hit bool) {
	if hit {
		RankingCacheHits.WithLabelValues(view).Inc()
	} else {
		RankingCacheMisses.WithLabelValues(view).Inc()
	}
}

// RecordImageStored counts a stored image.
func RecordImageStored(size int) {
	ImagesStored.Inc()
	ImageBytesStored.Add(float64(size))
}

// RecordImportRow counts one import row outcome.
func RecordImportRow(result string) {
	ImportRows.WithLabelValues(result).Inc()
}

// RecordBreakerTransition records a circuit breaker state change.
func RecordBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
