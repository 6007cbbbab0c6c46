// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

// Package search implements the recipe search pipeline: per-ingredient
// candidate lookup, merge and dedupe, cached detail resolution,
// scoring, ranking, and pagination.
package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mbaxter87/larder/internal/config"
	"github.com/mbaxter87/larder/internal/logging"
	"github.com/mbaxter87/larder/internal/match"
	"github.com/mbaxter87/larder/internal/mealdb"
	"github.com/mbaxter87/larder/internal/metrics"
	"github.com/mbaxter87/larder/internal/models"
)

// Provider is the recipe source the engine searches against.
type Provider interface {
	// FilterByIngredient returns candidate summaries for one
	// ingredient name. An unknown ingredient yields an empty slice.
	FilterByIngredient(ctx context.Context, ingredient string) ([]models.RecipeSummary, error)

	// Lookup fetches the full detail record for a recipe id.
	Lookup(ctx context.Context, id string) (*models.Recipe, error)
}

// Engine runs searches. Construct once and share; all state that
// varies per search lives in the request, the context, and the session
// cache.
type Engine struct {
	provider Provider
	matcher  *match.Matcher
	cfg      config.SearchConfig
	logger   zerolog.Logger
}

// NewEngine creates a search engine.
func NewEngine(provider Provider, matcher *match.Matcher, cfg config.SearchConfig) *Engine {
	return &Engine{
		provider: provider,
		matcher:  matcher,
		cfg:      cfg,
		logger:   logging.WithComponent("search"),
	}
}

// Search runs one search with a fresh session cache. Use
// SearchWithCache to share a cache across the page requests of one
// session.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	return e.SearchWithCache(ctx, req, NewDetailCache())
}

// SearchWithCache runs the full pipeline: candidate lookup per query
// ingredient, merge and dedupe by recipe id, detail resolution through
// the session cache, scoring against the full query set, filtering of
// zero-score recipes, ranking by score, and pagination.
//
// Partial provider failure degrades the result instead of failing it:
// an ingredient whose lookup fails contributes no candidates, and a
// recipe whose detail fetch fails is dropped. Only total failure, or a
// rate-limit rejection covering the whole search, surfaces as an
// error.
func (e *Engine) SearchWithCache(ctx context.Context, req Request, cache *DetailCache) (*Result, error) {
	start := time.Now()

	if req.Page < 1 || req.PageSize < 1 {
		return nil, &SearchError{Kind: KindInvalidPage, Reason: "page and page size must be positive"}
	}

	query := normalizeQuery(req.Ingredients)
	if len(query) == 0 {
		metrics.ObserveSearch(OutcomeEmptyQuery.String(), 0, start)
		return e.emptyResult(req, OutcomeEmptyQuery), nil
	}

	// Tag the pass so log lines from concurrent searches stay
	// attributable. Abandoned searches are cancelled through ctx.
	logger := e.logger.With().Str("search_id", uuid.New().String()[:8]).Logger()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	candidates, failedIngredients, rateLimited := e.gatherCandidates(ctx, logger, query)
	if len(candidates) == 0 {
		if len(failedIngredients) == len(query) {
			metrics.ObserveSearch("error", 0, start)
			if rateLimited {
				return nil, &SearchError{Kind: KindRateLimited, Reason: "recipe provider is rate limiting requests, try again shortly"}
			}
			return nil, &SearchError{Kind: KindProviderUnreachable, Reason: "recipe provider is unreachable"}
		}
		metrics.ObserveSearch(OutcomeNoCandidates.String(), 0, start)
		return e.emptyResult(req, OutcomeNoCandidates), nil
	}

	if len(candidates) > e.cfg.MaxCandidates {
		candidates = candidates[:e.cfg.MaxCandidates]
	}

	resolved, rateLimited := e.resolveDetails(ctx, logger, cache, candidates)
	if len(resolved) == 0 {
		metrics.ObserveSearch("error", len(candidates), start)
		if rateLimited {
			return nil, &SearchError{Kind: KindRateLimited, Reason: "recipe provider is rate limiting requests, try again shortly"}
		}
		return nil, &SearchError{Kind: KindProviderUnreachable, Reason: "recipe provider is unreachable"}
	}

	scored := make([]models.ScoredRecipe, 0, len(resolved))
	for _, recipe := range resolved {
		if s := e.matcher.Score(recipe, query); s.Score > 0 {
			scored = append(scored, s)
		}
	}
	if len(scored) == 0 {
		metrics.ObserveSearch(OutcomeNoMatches.String(), len(candidates), start)
		return e.emptyResult(req, OutcomeNoMatches), nil
	}

	// Rank by score; ties keep merge order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	total := len(scored)
	result := &Result{
		Items:             pageWindow(scored, req.Page, req.PageSize),
		TotalCount:        total,
		PageCount:         models.PageCount(total, req.PageSize),
		Page:              req.Page,
		PageSize:          req.PageSize,
		FailedIngredients: failedIngredients,
		Outcome:           OutcomeOK,
	}

	logger.Info().
		Int("query_ingredients", len(query)).
		Int("candidates", len(candidates)).
		Int("matches", total).
		Int("page", req.Page).
		Dur("elapsed", time.Since(start)).
		Msg("Search completed")
	metrics.ObserveSearch(OutcomeOK.String(), len(candidates), start)

	return result, nil
}

// gatherCandidates fans out one candidate lookup per query ingredient
// and merges the results in query order, deduplicating by recipe id.
// The merged order depends only on the query order, never on lookup
// completion order. A failed lookup contributes zero candidates and
// lands in failedIngredients.
func (e *Engine) gatherCandidates(ctx context.Context, logger zerolog.Logger, query []string) (merged []models.RecipeSummary, failedIngredients []string, rateLimited bool) {
	type lookupResult struct {
		summaries []models.RecipeSummary
		err       error
	}

	results := make([]lookupResult, len(query))
	var wg sync.WaitGroup
	for i, ingredient := range query {
		wg.Add(1)
		go func(i int, ingredient string) {
			defer wg.Done()
			summaries, err := e.provider.FilterByIngredient(ctx, ingredient)
			results[i] = lookupResult{summaries: summaries, err: err}
		}(i, ingredient)
	}
	wg.Wait()

	// Merge in query order; last-seen summary wins for duplicate ids
	// while the first occurrence keeps its position.
	position := make(map[string]int)
	for i, res := range results {
		if res.err != nil {
			failedIngredients = append(failedIngredients, query[i])
			if mealdb.IsRateLimited(res.err) {
				rateLimited = true
			}
			logger.Warn().Err(res.err).Str("ingredient", query[i]).Msg("Candidate lookup failed")
			continue
		}
		for _, summary := range res.summaries {
			if at, seen := position[summary.ID]; seen {
				merged[at] = summary
				continue
			}
			position[summary.ID] = len(merged)
			merged = append(merged, summary)
		}
	}
	return merged, failedIngredients, rateLimited
}

// resolveDetails fetches the full record for each candidate through
// the session cache, fanning out up to DetailConcurrency fetches at a
// time. Failed ids are dropped; the survivors keep candidate order.
func (e *Engine) resolveDetails(ctx context.Context, logger zerolog.Logger, cache *DetailCache, candidates []models.RecipeSummary) (resolved []*models.Recipe, rateLimited bool) {
	details := make([]*models.Recipe, len(candidates))
	errs := make([]error, len(candidates))

	sem := make(chan struct{}, e.cfg.DetailConcurrency)
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			details[i], errs[i] = cache.GetOrFetch(ctx, id, func(ctx context.Context) (*models.Recipe, error) {
				return e.provider.Lookup(ctx, id)
			})
		}(i, candidate.ID)
	}
	wg.Wait()

	resolved = make([]*models.Recipe, 0, len(candidates))
	for i, recipe := range details {
		if errs[i] != nil {
			if mealdb.IsRateLimited(errs[i]) {
				rateLimited = true
			}
			logger.Warn().Err(errs[i]).Str("recipe_id", candidates[i].ID).Msg("Detail fetch failed, dropping recipe")
			continue
		}
		resolved = append(resolved, recipe)
	}
	return resolved, rateLimited
}

// emptyResult builds the shared empty-page shape for the non-error
// empty outcomes.
func (e *Engine) emptyResult(req Request, outcome Outcome) *Result {
	return &Result{
		Items:    []models.ScoredRecipe{},
		Page:     req.Page,
		PageSize: req.PageSize,
		Outcome:  outcome,
	}
}

// normalizeQuery trims, lower-cases, and deduplicates the query
// ingredients, dropping blanks and preserving first-seen order.
func normalizeQuery(ingredients []string) []string {
	out := make([]string, 0, len(ingredients))
	seen := make(map[string]struct{}, len(ingredients))
	for _, ingredient := range ingredients {
		n := match.Normalize(ingredient)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// pageWindow slices one page out of the ranked results. Pages past the
// end are empty, not an error.
func pageWindow(items []models.ScoredRecipe, page, pageSize int) []models.ScoredRecipe {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []models.ScoredRecipe{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
