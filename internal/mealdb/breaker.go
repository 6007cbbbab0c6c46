// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package mealdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mbaxter87/larder/internal/logging"
	"github.com/mbaxter87/larder/internal/metrics"
	"github.com/mbaxter87/larder/internal/models"
)

// BreakerClient wraps Client with a circuit breaker so a degraded
// provider cannot pile up in-flight requests behind timeouts.
//
// DETERMINISM NOTE: the breaker uses real time (via sony/gobreaker)
// for its interval and timeout calculations. Tests should mock the
// underlying client rather than the breaker.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerClient creates a provider client with circuit breaker
// protection. Breaker configuration:
//   - max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - opens at 60% failure rate with minimum 10 requests
func NewBreakerClient(client *Client) *BreakerClient {
	cbName := "mealdb-api"

	metrics.CircuitBreakerState.Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a provider call with circuit breaker protection.
func (b *BreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		}
		return nil, err
	}
	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// FilterByIngredient returns candidate summaries with breaker protection.
func (b *BreakerClient) FilterByIngredient(ctx context.Context, ingredient string) ([]models.RecipeSummary, error) {
	return castResult[[]models.RecipeSummary](b.execute(func() (interface{}, error) {
		return b.client.FilterByIngredient(ctx, ingredient)
	}))
}

// Lookup fetches recipe detail with breaker protection.
func (b *BreakerClient) Lookup(ctx context.Context, id string) (*models.Recipe, error) {
	return castResult[*models.Recipe](b.execute(func() (interface{}, error) {
		return b.client.Lookup(ctx, id)
	}))
}

// Random fetches a random recipe with breaker protection.
func (b *BreakerClient) Random(ctx context.Context) (*models.Recipe, error) {
	return castResult[*models.Recipe](b.execute(func() (interface{}, error) {
		return b.client.Random(ctx)
	}))
}

// Ping verifies connectivity with breaker protection.
func (b *BreakerClient) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.client.Ping(ctx)
	})
	return err
}
