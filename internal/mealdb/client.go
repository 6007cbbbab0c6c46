// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

// Package mealdb is the HTTP client for TheMealDB's keyed v2 JSON API.
//
// Endpoints used:
//   - filter.php?i=<ingredient>  candidate summaries for one ingredient
//   - lookup.php?i=<id>          full recipe detail
//   - random.php                 one random recipe
//
// The client paces outgoing requests, retries HTTP 429 with exponential
// backoff, and honors Retry-After. Wrap it in a BreakerClient for
// circuit breaker protection.
package mealdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mbaxter87/larder/internal/config"
	"github.com/mbaxter87/larder/internal/logging"
	"github.com/mbaxter87/larder/internal/metrics"
	"github.com/mbaxter87/larder/internal/models"
)

// maxErrorBodySize limits how much response body is read for error
// reporting, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max
// 64KB). Returns a placeholder if reading fails.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client talks to TheMealDB API.
//
// Thread safety: safe for concurrent use. Each request creates its own
// HTTP request; the rate limiter serializes pacing internally.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	logger         zerolog.Logger
}

// NewClient creates a TheMealDB client from configuration.
func NewClient(cfg config.MealDBConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryDelay,
		logger:         logging.WithComponent("mealdb"),
	}
}

// mealsEnvelope is the single wrapper shape every endpoint uses. The
// provider answers {"meals": null} rather than an empty array when
// nothing matches.
type mealsEnvelope[T any] struct {
	Meals []T `json:"meals"`
}

// FilterByIngredient returns candidate recipe summaries whose
// ingredient list contains the given ingredient name. An unknown
// ingredient yields an empty slice, not an error.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]models.RecipeSummary, error) {
	params := url.Values{}
	params.Set("i", ingredient)

	var envelope mealsEnvelope[models.RecipeSummary]
	if err := c.makeRequest(ctx, "filter", params, &envelope); err != nil {
		return nil, err
	}
	if envelope.Meals == nil {
		return []models.RecipeSummary{}, nil
	}
	return envelope.Meals, nil
}

// Lookup fetches the full recipe detail for an id. Returns ErrNotFound
// when the provider has no recipe for it.
func (c *Client) Lookup(ctx context.Context, id string) (*models.Recipe, error) {
	params := url.Values{}
	params.Set("i", id)

	var envelope mealsEnvelope[models.Recipe]
	if err := c.makeRequest(ctx, "lookup", params, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Meals) == 0 {
		return nil, fmt.Errorf("lookup %q: %w", id, ErrNotFound)
	}
	return &envelope.Meals[0], nil
}

// Random fetches one random recipe.
func (c *Client) Random(ctx context.Context) (*models.Recipe, error) {
	var envelope mealsEnvelope[models.Recipe]
	if err := c.makeRequest(ctx, "random", nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Meals) == 0 {
		return nil, &APIError{Endpoint: "random", Message: "provider returned no recipe"}
	}
	return &envelope.Meals[0], nil
}

// Ping verifies provider connectivity with a random-recipe request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Random(ctx)
	return err
}

// makeRequest handles the common request boilerplate: URL construction,
// pacing, rate-limit retries, status checking, and JSON decoding.
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	query := ""
	if len(params) > 0 {
		query = "?" + params.Encode()
	}
	reqURL := fmt.Sprintf("%s/api/json/v2/%s/%s.php%s", c.baseURL, c.apiKey, endpoint, query)

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, endpoint, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	metrics.ObserveProviderRequest(endpoint, resp.StatusCode, start)

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "decoding response", Err: err}
	}
	return nil
}

// doRequestWithRateLimit performs an HTTP request with pacing and
// automatic 429 handling. Backoff doubles per attempt from the
// configured base delay; a Retry-After header overrides the computed
// delay. The context cancels both the request and backoff waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, endpoint, reqURL string) (*http.Response, error) {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, &APIError{Endpoint: endpoint, Message: "creating request", Err: err}
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, &APIError{Endpoint: endpoint, Message: "request failed", Err: err}
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited: close the body and retry with backoff.
		metrics.ProviderRateLimited.Inc()
		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Provider rate limited, backing off")
		metrics.ProviderRetries.Inc()

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, &APIError{
		Endpoint:    endpoint,
		StatusCode:  http.StatusTooManyRequests,
		RateLimited: true,
		Message:     fmt.Sprintf("rate limit exceeded after %d retries", c.maxRetries),
	}
}
