// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mbaxter87/larder/internal/logging"
	"github.com/mbaxter87/larder/internal/mealdb"
	"github.com/mbaxter87/larder/internal/models"
	"github.com/mbaxter87/larder/internal/search"
)

// Searcher runs pantry searches against the recipe provider.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

// RecipeSource resolves individual recipes by ID or at random.
type RecipeSource interface {
	Lookup(ctx context.Context, id string) (*models.Recipe, error)
	Random(ctx context.Context) (*models.Recipe, error)
}

// Handler serves the recipe search API endpoints.
type Handler struct {
	searcher        Searcher
	recipes         RecipeSource
	defaultPageSize int
	maxPageSize     int
	validate        *validator.Validate
}

// NewHandler creates an API handler.
func NewHandler(searcher Searcher, recipes RecipeSource, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{
		searcher:        searcher,
		recipes:         recipes,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		validate:        validator.New(),
	}
}

// searchResponse is the payload for the search endpoint.
type searchResponse struct {
	Recipes           []scoredRecipe `json:"recipes"`
	FailedIngredients []string       `json:"failed_ingredients,omitempty"`
	Message           string         `json:"message,omitempty"`
}

// scoredRecipe is the client-facing shape of a ranked search hit.
type scoredRecipe struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Category           string   `json:"category,omitempty"`
	Area               string   `json:"area,omitempty"`
	ThumbURL           string   `json:"thumb_url,omitempty"`
	Score              int      `json:"score"`
	MatchedIngredients []string `json:"matched_ingredients"`
	TotalIngredients   int      `json:"total_ingredients"`
}

// SearchRecipes handles GET /api/v1/recipes/search.
//
// Query parameters:
//
//	ingredients  comma-separated pantry ingredients (required for results)
//	page         1-based page number (default 1)
//	page_size    results per page (default and cap from configuration)
func (h *Handler) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ingredients := splitIngredients(r.URL.Query().Get("ingredients"))

	page, err := h.parseIntParam(r, "page", 1)
	if err != nil {
		rw.ValidationError(err.Error())
		return
	}
	pageSize, err := h.parseIntParam(r, "page_size", h.defaultPageSize)
	if err != nil {
		rw.ValidationError(err.Error())
		return
	}

	if err := h.validate.Var(page, "gte=1"); err != nil {
		rw.ValidationError("page must be 1 or greater")
		return
	}
	if err := h.validate.Var(pageSize, fmt.Sprintf("gte=1,lte=%d", h.maxPageSize)); err != nil {
		rw.ValidationError(fmt.Sprintf("page_size must be between 1 and %d", h.maxPageSize))
		return
	}

	result, err := h.searcher.Search(r.Context(), search.Request{
		Ingredients: ingredients,
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		h.writeSearchError(rw, err)
		return
	}

	resp := searchResponse{
		Recipes:           make([]scoredRecipe, 0, len(result.Items)),
		FailedIngredients: result.FailedIngredients,
	}
	for _, item := range result.Items {
		resp.Recipes = append(resp.Recipes, scoredRecipe{
			ID:                 item.Recipe.ID,
			Name:               item.Recipe.Name,
			Category:           item.Recipe.Category,
			Area:               item.Recipe.Area,
			ThumbURL:           item.Recipe.ThumbURL,
			Score:              item.Score,
			MatchedIngredients: item.MatchedIngredients,
			TotalIngredients:   item.TotalIngredients,
		})
	}
	if result.Outcome != search.OutcomeOK {
		resp.Message = result.Outcome.Reason()
	}

	rw.SuccessWithPagination(resp, &PaginationMeta{
		Total:     result.TotalCount,
		Count:     len(result.Items),
		Page:      result.Page,
		PageSize:  result.PageSize,
		PageCount: result.PageCount,
		HasMore:   result.Page < result.PageCount,
	})
}

// GetRecipe handles GET /api/v1/recipes/{id}.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	if err := h.validate.Var(id, "required,numeric"); err != nil {
		rw.ValidationError("recipe id must be numeric")
		return
	}

	recipe, err := h.recipes.Lookup(r.Context(), id)
	if err != nil {
		if errors.Is(err, mealdb.ErrNotFound) {
			rw.NotFound("recipe not found: " + id)
			return
		}
		if mealdb.IsRateLimited(err) {
			rw.TooManyRequests("recipe provider rate limit exceeded, try again shortly")
			return
		}
		rw.ExternalServiceError("mealdb", err)
		return
	}

	rw.Success(recipe)
}

// RandomRecipe handles GET /api/v1/recipes/random.
func (h *Handler) RandomRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, err := h.recipes.Random(r.Context())
	if err != nil {
		if mealdb.IsRateLimited(err) {
			rw.TooManyRequests("recipe provider rate limit exceeded, try again shortly")
			return
		}
		rw.ExternalServiceError("mealdb", err)
		return
	}

	rw.Success(recipe)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(map[string]string{"status": "ok"})
}

// writeSearchError maps engine errors onto HTTP status codes.
func (h *Handler) writeSearchError(rw *ResponseWriter, err error) {
	var serr *search.SearchError
	if errors.As(err, &serr) {
		switch serr.Kind {
		case search.KindInvalidPage:
			rw.BadRequest(serr.Reason)
			return
		case search.KindRateLimited:
			rw.TooManyRequests(serr.Reason)
			return
		case search.KindProviderUnreachable:
			rw.ExternalServiceError("mealdb", serr)
			return
		}
	}
	logging.Error().Err(err).Msg("Search failed")
	rw.InternalError("search failed")
}

// parseIntParam reads an integer query parameter, returning def when absent.
func (h *Handler) parseIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// splitIngredients splits a comma-separated ingredient list, dropping
// empty segments. Normalization happens in the search engine.
func splitIngredients(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
