// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/pantryrank/internal/auth"
	"github.com/tomtom215/pantryrank/internal/middleware"
)

// Router wires handlers, authentication and middleware.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. Authentication failures are written in the
// API error envelope.
func NewRouter(handler *Handler, authenticator auth.Authenticator, mwCfg *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		auth:          auth.NewMiddleware(authenticator, writeAuthError),
		chiMiddleware: NewChiMiddleware(mwCfg),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/categories", router.handler.Categories)
			r.Get("/supermarkets", router.handler.Supermarkets)
			r.Get("/trending", router.handler.Trending)
			r.Get("/tops", router.handler.TopContributors)
			r.Get("/images/{id}", router.handler.GetImage)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", router.handler.ListProducts)
				r.Get("/match", router.handler.MatchProducts)
				r.Get("/search", router.handler.SearchProducts)
				r.Get("/category/{id}", router.handler.ListByCategory)
				r.Get("/{id}", router.handler.GetProduct)
				r.Get("/{id}/ratings", router.handler.ListRatings)

				r.Group(func(r chi.Router) {
					r.Use(router.auth.RequireAuth)
					r.Use(router.chiMiddleware.RateLimitWrite())
					r.Post("/", router.handler.CreateProduct)
					r.Post("/{id}/ratings", router.handler.SubmitRating)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(router.auth.RequireAuth)
				r.Get("/my-products", router.handler.MyProducts)
				r.Get("/user", router.handler.CurrentUser)
				r.With(router.chiMiddleware.RateLimitWrite()).Post("/upload", router.handler.UploadImage)
			})
		})
	})

	return r
}
