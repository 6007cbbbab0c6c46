// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Search pipeline latency and outcomes
// - Provider (TheMealDB) request volume, retries, and rate limiting
// - Detail cache efficiency
// - HTTP API latency and throughput

var (
	// Search Metrics
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "larder_search_duration_seconds",
			Help:    "Duration of full search pipeline runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_searches_total",
			Help: "Total number of searches by outcome",
		},
		[]string{"outcome"}, // "ok", "empty_query", "no_candidates", "no_matches", "error"
	)

	SearchCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "larder_search_candidates",
			Help:    "Merged candidate count per search after deduplication",
			Buckets: []float64{0, 1, 5, 10, 20, 42, 100},
		},
	)

	// Provider Metrics
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "larder_provider_request_duration_seconds",
			Help:    "Duration of TheMealDB requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_provider_requests_total",
			Help: "Total number of TheMealDB requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	ProviderRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "larder_provider_retries_total",
			Help: "Total number of retried TheMealDB requests",
		},
	)

	ProviderRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "larder_provider_rate_limited_total",
			Help: "Total number of HTTP 429 responses from TheMealDB",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "larder_circuit_breaker_state",
			Help: "Provider circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"from", "to"},
	)

	// Detail Cache Metrics
	DetailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "larder_detail_cache_hits_total",
			Help: "Detail cache hits across search sessions",
		},
	)

	DetailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "larder_detail_cache_misses_total",
			Help: "Detail cache misses across search sessions",
		},
	)

	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "larder_api_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_api_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveSearch records one completed search pipeline run.
func ObserveSearch(outcome string, candidates int, start time.Time) {
	SearchDuration.Observe(time.Since(start).Seconds())
	SearchesTotal.WithLabelValues(outcome).Inc()
	SearchCandidates.Observe(float64(candidates))
}

// ObserveProviderRequest records one provider round trip.
func ObserveProviderRequest(endpoint string, status int, start time.Time) {
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	ProviderRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// ObserveAPIRequest records one handled HTTP request.
func ObserveAPIRequest(method, route string, status int, start time.Time) {
	APIRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
