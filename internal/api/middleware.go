// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/mbaxter87/larder/internal/config"
	"github.com/mbaxter87/larder/internal/logging"
	"github.com/mbaxter87/larder/internal/metrics"
)

// Middleware bundles the HTTP middleware used by the router.
type Middleware struct {
	cfg config.APIConfig
}

// NewMiddleware creates the middleware set from API configuration.
func NewMiddleware(cfg config.APIConfig) *Middleware {
	return &Middleware{cfg: cfg}
}

// CORS returns a CORS handler configured from the allowed origins.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimitByIP returns a per-client-IP rate limiting middleware.
// Returns a no-op when rate limiting is disabled in configuration.
func (m *Middleware) RateLimitByIP() func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(m.cfg.RateLimitReqs, m.cfg.RateLimitWindow)
}

// RequestID attaches a request ID to the context and response headers,
// and stores a request-scoped logger carrying that ID.
func (m *Middleware) RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			logger := logging.With().Str("request_id", requestID).Logger()
			ctx = logging.ContextWithLogger(ctx, logger)

			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger logs each request with method, route, status and duration.
func (m *Middleware) RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logging.Ctx(r.Context()).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}

// Metrics records request duration and count per route pattern.
func (m *Middleware) Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveAPIRequest(r.Method, route, ww.Status(), start)
		})
	}
}
