// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package search

import "errors"

// ErrorKind classifies search failures for callers that map them to
// transport responses.
type ErrorKind int

const (
	// KindRateLimited means the provider refused the search with HTTP
	// 429 after the retry budget. Retryable.
	KindRateLimited ErrorKind = iota

	// KindProviderUnreachable means every provider call needed for the
	// search failed.
	KindProviderUnreachable

	// KindInvalidPage means the requested page number or size is out
	// of range.
	KindInvalidPage
)

// SearchError is the single error type crossing the search boundary.
// Reason is safe to show to users.
type SearchError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *SearchError) Error() string {
	return e.Reason
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a SearchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var searchErr *SearchError
	return errors.As(err, &searchErr) && searchErr.Kind == kind
}
