// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package api exposes the catalog over HTTP.
//
// Routes live under /api/v1 and answer with the models.APIResponse
// envelope:
//
//	GET  /api/v1/products/match?name=      candidate products for a name
//	POST /api/v1/products                  create a product (auth)
//	POST /api/v1/products/{id}/ratings     merge a rating (auth)
//	GET  /api/v1/products                  list all products
//	GET  /api/v1/products/category/{id}    list one category
//	GET  /api/v1/products/search?q=        substring search
//	GET  /api/v1/products/{id}             one product
//	GET  /api/v1/products/{id}/ratings     ratings ledger, newest first
//	GET  /api/v1/trending?limit=           most reviewed products
//	GET  /api/v1/tops?limit=               top contributors
//	GET  /api/v1/my-products               products created by the caller (auth)
//	GET  /api/v1/user                      the caller's profile (auth)
//	POST /api/v1/upload                    store a product image (auth)
//	GET  /api/v1/images/{id}               fetch a stored image
//	GET  /api/v1/categories                category table
//	GET  /api/v1/supermarkets              supermarket list
//	GET  /api/v1/health/live               liveness
//	GET  /api/v1/health/ready              readiness (store ping)
//	GET  /metrics                          Prometheus metrics
//
// Domain errors map to status codes in one place, writeServiceError.
// Authenticated writes upsert the caller's profile so contributor display
// names stay current.
package api
