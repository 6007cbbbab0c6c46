// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package search

import "github.com/mbaxter87/larder/internal/models"

// Request describes one search: the pantry ingredients to cook from
// and which page of results to return.
type Request struct {
	// Ingredients are free-text pantry ingredient names, in the order
	// the user listed them. Blanks are dropped during normalization.
	Ingredients []string

	// Page is 1-based. Pages past the end yield empty items, not an
	// error.
	Page int

	// PageSize must be positive.
	PageSize int
}

// Outcome distinguishes the empty-result shapes a search can end in.
// All of them are normal completions, not errors.
type Outcome int

const (
	// OutcomeOK means at least one recipe matched.
	OutcomeOK Outcome = iota

	// OutcomeEmptyQuery means no usable ingredients were given; the
	// provider was never contacted.
	OutcomeEmptyQuery

	// OutcomeNoCandidates means no ingredient produced any candidate
	// recipe.
	OutcomeNoCandidates

	// OutcomeNoMatches means candidates existed but every one scored
	// zero against the query.
	OutcomeNoMatches
)

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmptyQuery:
		return "empty_query"
	case OutcomeNoCandidates:
		return "no_candidates"
	case OutcomeNoMatches:
		return "no_matches"
	default:
		return "unknown"
	}
}

// Reason returns the user-facing message for empty outcomes, or empty
// string for OutcomeOK.
func (o Outcome) Reason() string {
	switch o {
	case OutcomeEmptyQuery:
		return "no ingredients given"
	case OutcomeNoCandidates:
		return "no recipes found for these ingredients"
	case OutcomeNoMatches:
		return "no complete matches, try adding more ingredients"
	default:
		return ""
	}
}

// Result is one page of a completed search.
type Result struct {
	// Items holds the requested page of scored recipes, best first.
	Items []models.ScoredRecipe

	// TotalCount is the number of matching recipes across all pages.
	TotalCount int

	// PageCount is ceil(TotalCount / PageSize).
	PageCount int

	Page     int
	PageSize int

	// FailedIngredients lists query ingredients whose candidate lookup
	// failed. The search degraded rather than aborting; callers may
	// tell the user these ingredients were not searched.
	FailedIngredients []string

	Outcome Outcome
}
