// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package mealdb

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Lookup when the provider has no recipe
// for the requested id.
var ErrNotFound = errors.New("recipe not found")

// APIError describes a failed provider request.
type APIError struct {
	// Endpoint is the provider command that failed ("filter", "lookup",
	// "random").
	Endpoint string

	// StatusCode is the HTTP status the provider answered with, or 0
	// for transport-level failures.
	StatusCode int

	// RateLimited marks HTTP 429 responses that survived the retry
	// budget. Callers surface these as retryable.
	RateLimited bool

	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mealdb %s: %s: %v", e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("mealdb %s: %s", e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err is a provider rate-limit rejection.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited
}
