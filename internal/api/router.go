// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbaxter87/larder/internal/config"
)

// NewRouter builds the HTTP router with all routes and middleware wired.
func NewRouter(handler *Handler, cfg config.APIConfig) http.Handler {
	mw := NewMiddleware(cfg)

	r := chi.NewRouter()

	r.Use(mw.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimitByIP())
		r.Use(mw.Metrics())
		r.Use(mw.RequestLogger())

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/search", handler.SearchRecipes)
			r.Get("/random", handler.RandomRecipe)
			r.Get("/{id}", handler.GetRecipe)
		})
	})

	return r
}
