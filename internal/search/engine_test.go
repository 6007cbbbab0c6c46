// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mbaxter87/larder/internal/config"
	"github.com/mbaxter87/larder/internal/match"
	"github.com/mbaxter87/larder/internal/mealdb"
	"github.com/mbaxter87/larder/internal/models"
)

// mockProvider implements Provider with pluggable behavior and call
// counting.
type mockProvider struct {
	mu          sync.Mutex
	filterFn    func(ctx context.Context, ingredient string) ([]models.RecipeSummary, error)
	lookupFn    func(ctx context.Context, id string) (*models.Recipe, error)
	lookupCalls map[string]int
}

func (m *mockProvider) FilterByIngredient(ctx context.Context, ingredient string) ([]models.RecipeSummary, error) {
	return m.filterFn(ctx, ingredient)
}

func (m *mockProvider) Lookup(ctx context.Context, id string) (*models.Recipe, error) {
	m.mu.Lock()
	if m.lookupCalls == nil {
		m.lookupCalls = make(map[string]int)
	}
	m.lookupCalls[id]++
	m.mu.Unlock()
	return m.lookupFn(ctx, id)
}

func (m *mockProvider) calls(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupCalls[id]
}

func testEngine(p Provider) *Engine {
	return NewEngine(p, match.NewMatcher(match.DefaultPolicy()), config.SearchConfig{
		MaxCandidates:     42,
		DetailConcurrency: 4,
		Timeout:           5 * time.Second,
	})
}

func summary(id string) models.RecipeSummary {
	return models.RecipeSummary{ID: id, Name: "recipe " + id, ThumbURL: "https://example.test/" + id + ".jpg"}
}

func recipeWith(id string, ingredients ...string) *models.Recipe {
	r := &models.Recipe{ID: id, Name: "recipe " + id}
	for i, ing := range ingredients {
		r.Ingredients[i] = ing
	}
	return r
}

// recipesByID builds a lookupFn serving a fixed recipe set.
func recipesByID(recipes ...*models.Recipe) func(context.Context, string) (*models.Recipe, error) {
	byID := make(map[string]*models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	return func(_ context.Context, id string) (*models.Recipe, error) {
		r, ok := byID[id]
		if !ok {
			return nil, mealdb.ErrNotFound
		}
		return r, nil
	}
}

func TestSearchDedupesByRecipeID(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, ingredient string) ([]models.RecipeSummary, error) {
			// Both ingredients return the same recipe id.
			return []models.RecipeSummary{summary("52772")}, nil
		},
		lookupFn: recipesByID(recipeWith("52772", "Chicken", "Soy Sauce")),
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken", "soy sauce"},
		Page:        1,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.TotalCount != 1 || len(result.Items) != 1 {
		t.Fatalf("TotalCount = %d, items = %d, want one deduplicated entry", result.TotalCount, len(result.Items))
	}
	if result.Items[0].Recipe.ID != "52772" {
		t.Errorf("item ID = %q", result.Items[0].Recipe.ID)
	}
	if got := p.calls("52772"); got != 1 {
		t.Errorf("lookup calls for 52772 = %d, want 1", got)
	}
}

func TestSearchSortsByScoreWithStableTies(t *testing.T) {
	t.Parallel()

	// Scores: r1=3, r2=1, r3=3, r4=0. Expect r1, r3, r2; r4 filtered.
	recipes := []*models.Recipe{
		recipeWith("r1", "Chicken", "Pasta", "Tomato"),
		recipeWith("r2", "Chicken", "Salt"),
		recipeWith("r3", "Chicken Breast", "Pasta", "Tomato"),
		recipeWith("r4", "Tofu"),
	}
	p := &mockProvider{
		filterFn: func(_ context.Context, ingredient string) ([]models.RecipeSummary, error) {
			if ingredient != "chicken" {
				return []models.RecipeSummary{}, nil
			}
			return []models.RecipeSummary{summary("r1"), summary("r2"), summary("r3"), summary("r4")}, nil
		},
		lookupFn: recipesByID(recipes...),
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken", "pasta", "tomato"},
		Page:        1,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	wantOrder := []string{"r1", "r3", "r2"}
	if len(result.Items) != len(wantOrder) {
		t.Fatalf("items = %d, want %d", len(result.Items), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got := result.Items[i].Recipe.ID; got != want {
			t.Errorf("items[%d] = %s, want %s", i, got, want)
		}
	}
	if result.Items[0].Score != 3 || result.Items[2].Score != 1 {
		t.Errorf("scores = [%d %d %d]", result.Items[0].Score, result.Items[1].Score, result.Items[2].Score)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			t.Error("provider contacted for empty query")
			return nil, nil
		},
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"", "   "},
		Page:        1,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Outcome != OutcomeEmptyQuery {
		t.Errorf("Outcome = %v, want OutcomeEmptyQuery", result.Outcome)
	}
	if len(result.Items) != 0 || result.TotalCount != 0 {
		t.Errorf("expected empty result shape, got %+v", result)
	}
}

func TestSearchNoCandidates(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return []models.RecipeSummary{}, nil
		},
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"unobtainium"},
		Page:        1,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Outcome != OutcomeNoCandidates {
		t.Errorf("Outcome = %v, want OutcomeNoCandidates", result.Outcome)
	}
	if result.Outcome.Reason() != "no recipes found for these ingredients" {
		t.Errorf("Reason = %q", result.Outcome.Reason())
	}
}

func TestSearchNoMatches(t *testing.T) {
	t.Parallel()

	// Candidate exists but scores zero: "beef" vs "beef stock".
	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return []models.RecipeSummary{summary("r1")}, nil
		},
		lookupFn: recipesByID(recipeWith("r1", "Beef Stock")),
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"beef"},
		Page:        1,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Outcome != OutcomeNoMatches {
		t.Errorf("Outcome = %v, want OutcomeNoMatches", result.Outcome)
	}
	if result.Outcome.Reason() == OutcomeNoCandidates.Reason() {
		t.Error("no-matches reason must differ from no-candidates reason")
	}
}

func TestSearchAllLookupsRateLimited(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return nil, &mealdb.APIError{
				Endpoint:    "filter",
				StatusCode:  http.StatusTooManyRequests,
				RateLimited: true,
				Message:     "rate limit exceeded",
			}
		},
	}

	_, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken", "beef"},
		Page:        1,
		PageSize:    6,
	})
	if !IsKind(err, KindRateLimited) {
		t.Errorf("error = %v, want KindRateLimited", err)
	}
}

func TestSearchAllLookupsFail(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken"},
		Page:        1,
		PageSize:    6,
	})
	if !IsKind(err, KindProviderUnreachable) {
		t.Errorf("error = %v, want KindProviderUnreachable", err)
	}
}

func TestSearchPartialLookupFailureDegrades(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, ingredient string) ([]models.RecipeSummary, error) {
			if ingredient == "beef" {
				return nil, errors.New("connection reset")
			}
			return []models.RecipeSummary{summary("r1")}, nil
		},
		lookupFn: recipesByID(recipeWith("r1", "Chicken")),
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken", "beef"},
		Page:        1,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v, want degraded success", err)
	}
	if result.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", result.TotalCount)
	}
	if len(result.FailedIngredients) != 1 || result.FailedIngredients[0] != "beef" {
		t.Errorf("FailedIngredients = %v, want [beef]", result.FailedIngredients)
	}
}

func TestSearchAllDetailFetchesFail(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return []models.RecipeSummary{summary("r1"), summary("r2")}, nil
		},
		lookupFn: func(_ context.Context, _ string) (*models.Recipe, error) {
			return nil, errors.New("timeout")
		},
	}

	_, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken"},
		Page:        1,
		PageSize:    6,
	})
	if !IsKind(err, KindProviderUnreachable) {
		t.Errorf("error = %v, want KindProviderUnreachable", err)
	}
}

func TestSearchDroppedDetailDoesNotAbort(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return []models.RecipeSummary{summary("r1"), summary("r2")}, nil
		},
		lookupFn: recipesByID(recipeWith("r1", "Chicken")), // r2 resolves to not-found
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken"},
		Page:        1,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.TotalCount != 1 || result.Items[0].Recipe.ID != "r1" {
		t.Errorf("result = %+v, want only r1", result.Items)
	}
}

func TestSearchPageBeyondEnd(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return []models.RecipeSummary{summary("r1")}, nil
		},
		lookupFn: recipesByID(recipeWith("r1", "Chicken")),
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken"},
		Page:        4,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v, page past end must not fail", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("items = %d, want 0 on page past end", len(result.Items))
	}
	if result.TotalCount != 1 || result.PageCount != 1 {
		t.Errorf("TotalCount = %d, PageCount = %d", result.TotalCount, result.PageCount)
	}
}

func TestSearchInvalidPage(t *testing.T) {
	t.Parallel()

	p := &mockProvider{}
	_, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken"},
		Page:        0,
		PageSize:    6,
	})
	if !IsKind(err, KindInvalidPage) {
		t.Errorf("error = %v, want KindInvalidPage", err)
	}
}

func TestSearchCandidateCap(t *testing.T) {
	t.Parallel()

	summaries := make([]models.RecipeSummary, 10)
	recipes := make([]*models.Recipe, 10)
	for i := range summaries {
		id := fmt.Sprintf("r%d", i)
		summaries[i] = summary(id)
		recipes[i] = recipeWith(id, "Chicken")
	}
	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return summaries, nil
		},
		lookupFn: recipesByID(recipes...),
	}

	engine := NewEngine(p, match.NewMatcher(match.DefaultPolicy()), config.SearchConfig{
		MaxCandidates:     3,
		DetailConcurrency: 4,
		Timeout:           5 * time.Second,
	})

	result, err := engine.Search(context.Background(), Request{
		Ingredients: []string{"chicken"},
		Page:        1,
		PageSize:    20,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want candidate cap 3", result.TotalCount)
	}
	if got := p.calls("r5"); got != 0 {
		t.Errorf("capped candidate r5 was looked up %d times", got)
	}
}

func TestSearchWithCacheReusesDetails(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(_ context.Context, _ string) ([]models.RecipeSummary, error) {
			return []models.RecipeSummary{summary("r1")}, nil
		},
		lookupFn: recipesByID(recipeWith("r1", "Chicken")),
	}

	engine := testEngine(p)
	cache := NewDetailCache()

	for page := 1; page <= 2; page++ {
		if _, err := engine.SearchWithCache(context.Background(), Request{
			Ingredients: []string{"chicken"},
			Page:        page,
			PageSize:    6,
		}, cache); err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
	}

	if got := p.calls("r1"); got != 1 {
		t.Errorf("lookup calls = %d, want 1 across session pages", got)
	}
}

func TestSearchEndToEndChickenAndCheese(t *testing.T) {
	t.Parallel()

	// Overlapping candidate sets; r1 matches both query ingredients,
	// r2 matches only chicken.
	r1 := recipeWith("r1", "Chicken Breast", "Cheddar Cheese", "Salt")
	r2 := recipeWith("r2", "Chicken Thighs", "Rice")
	p := &mockProvider{
		filterFn: func(_ context.Context, ingredient string) ([]models.RecipeSummary, error) {
			switch ingredient {
			case "chicken":
				return []models.RecipeSummary{summary("r1"), summary("r2")}, nil
			case "cheese":
				return []models.RecipeSummary{summary("r1")}, nil
			default:
				return []models.RecipeSummary{}, nil
			}
		},
		lookupFn: recipesByID(r1, r2),
	}

	result, err := testEngine(p).Search(context.Background(), Request{
		Ingredients: []string{"chicken", "cheese"},
		Page:        1,
		PageSize:    6,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", result.TotalCount)
	}
	if result.Items[0].Recipe.ID != "r1" || result.Items[0].Score != 2 {
		t.Errorf("items[0] = %s score %d, want r1 score 2", result.Items[0].Recipe.ID, result.Items[0].Score)
	}
	if result.Items[1].Recipe.ID != "r2" || result.Items[1].Score != 1 {
		t.Errorf("items[1] = %s score %d, want r2 score 1", result.Items[1].Recipe.ID, result.Items[1].Score)
	}
	if result.Outcome != OutcomeOK {
		t.Errorf("Outcome = %v", result.Outcome)
	}
}

func TestSearchContextCancelled(t *testing.T) {
	t.Parallel()

	p := &mockProvider{
		filterFn: func(ctx context.Context, _ string) ([]models.RecipeSummary, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testEngine(p).Search(ctx, Request{
		Ingredients: []string{"chicken"},
		Page:        1,
		PageSize:    6,
	})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
