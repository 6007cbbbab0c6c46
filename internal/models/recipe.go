// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

// Package models defines the recipe data structures shared across Larder.
//
// Recipes originate from TheMealDB, which encodes ingredients as twenty
// numbered string slots (strIngredient1..strIngredient20) with paired
// measure slots. The types here absorb that wire shape and expose it as
// ordered ingredient entries.
package models

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// MaxIngredientSlots is the number of numbered ingredient/measure slots
// a provider recipe record carries.
const MaxIngredientSlots = 20

// RecipeSummary is the abbreviated recipe record returned by
// ingredient-filtered candidate lookups.
type RecipeSummary struct {
	ID       string `json:"idMeal"`
	Name     string `json:"strMeal"`
	ThumbURL string `json:"strMealThumb"`
}

// Recipe is a full recipe record from the provider. The numbered
// ingredient and measure slots are folded into fixed arrays; provider
// fields this service does not model are retained in Extra so detail
// responses can round-trip them.
type Recipe struct {
	ID           string
	Name         string
	Category     string
	Area         string
	Instructions string
	ThumbURL     string
	Tags         string
	YoutubeURL   string
	SourceURL    string

	// Ingredients and Measures hold slots 1..MaxIngredientSlots at
	// indices 0..MaxIngredientSlots-1. Values are raw provider strings;
	// use IngredientEntries for the cleaned, ordered view.
	Ingredients [MaxIngredientSlots]string
	Measures    [MaxIngredientSlots]string

	Extra map[string]string
}

// IngredientEntry is one populated ingredient slot of a recipe.
type IngredientEntry struct {
	// Slot is the 1-based provider slot number the entry came from.
	Slot int `json:"slot"`

	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// IngredientEntries returns the recipe's populated ingredient slots in
// slot order. A slot is included only when its ingredient name is
// non-blank after trimming; the paired measure defaults to empty when
// absent. Blank or missing slots are skipped, never an error.
func (r *Recipe) IngredientEntries() []IngredientEntry {
	entries := make([]IngredientEntry, 0, MaxIngredientSlots)
	for i := 0; i < MaxIngredientSlots; i++ {
		name := strings.TrimSpace(r.Ingredients[i])
		if name == "" {
			continue
		}
		entries = append(entries, IngredientEntry{
			Slot:    i + 1,
			Name:    name,
			Measure: strings.TrimSpace(r.Measures[i]),
		})
	}
	return entries
}

// recipeFieldKeys maps provider JSON keys to Recipe struct fields for
// everything outside the numbered slots.
var recipeFieldKeys = map[string]func(r *Recipe, v string){
	"idMeal":          func(r *Recipe, v string) { r.ID = v },
	"strMeal":         func(r *Recipe, v string) { r.Name = v },
	"strCategory":     func(r *Recipe, v string) { r.Category = v },
	"strArea":         func(r *Recipe, v string) { r.Area = v },
	"strInstructions": func(r *Recipe, v string) { r.Instructions = v },
	"strMealThumb":    func(r *Recipe, v string) { r.ThumbURL = v },
	"strTags":         func(r *Recipe, v string) { r.Tags = v },
	"strYoutube":      func(r *Recipe, v string) { r.YoutubeURL = v },
	"strSource":       func(r *Recipe, v string) { r.SourceURL = v },
}

// UnmarshalJSON decodes a provider recipe object. Numbered slot keys
// land in the Ingredients/Measures arrays, known keys in their struct
// fields, and everything else in Extra. Provider nulls decode as empty
// strings.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding recipe: %w", err)
	}

	*r = Recipe{}
	for key, ptr := range raw {
		value := ""
		if ptr != nil {
			value = *ptr
		}

		if set, ok := recipeFieldKeys[key]; ok {
			set(r, value)
			continue
		}
		if slot, ok := slotIndex(key, "strIngredient"); ok {
			r.Ingredients[slot] = value
			continue
		}
		if slot, ok := slotIndex(key, "strMeasure"); ok {
			r.Measures[slot] = value
			continue
		}

		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[key] = value
	}
	return nil
}

// MarshalJSON re-encodes the recipe in the provider's flat shape.
// Empty slots are emitted as empty strings so the slot count stays
// visible to clients that expect the provider layout.
func (r *Recipe) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(recipeFieldKeys)+2*MaxIngredientSlots+len(r.Extra))
	out["idMeal"] = r.ID
	out["strMeal"] = r.Name
	out["strCategory"] = r.Category
	out["strArea"] = r.Area
	out["strInstructions"] = r.Instructions
	out["strMealThumb"] = r.ThumbURL
	out["strTags"] = r.Tags
	out["strYoutube"] = r.YoutubeURL
	out["strSource"] = r.SourceURL
	for i := 0; i < MaxIngredientSlots; i++ {
		n := strconv.Itoa(i + 1)
		out["strIngredient"+n] = r.Ingredients[i]
		out["strMeasure"+n] = r.Measures[i]
	}
	for key, value := range r.Extra {
		out[key] = value
	}
	return json.Marshal(out)
}

// slotIndex parses keys like "strIngredient7" into a 0-based array
// index. Returns false for out-of-range or non-numeric suffixes.
func slotIndex(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(key[len(prefix):])
	if err != nil || n < 1 || n > MaxIngredientSlots {
		return 0, false
	}
	return n - 1, true
}

// ScoredRecipe is a recipe annotated with how well it matched the
// query ingredients. Recomputed on every search, never persisted.
type ScoredRecipe struct {
	Recipe *Recipe `json:"recipe"`

	// Score is the count of distinct query ingredients that matched at
	// least one of the recipe's ingredients.
	Score int `json:"score"`

	// MatchedIngredients lists the matched query ingredients in query
	// order, normalized.
	MatchedIngredients []string `json:"matched_ingredients"`

	// TotalIngredients is the recipe's populated slot count.
	TotalIngredients int `json:"total_ingredients"`
}

// PageCount returns the number of pages needed to hold total items at
// pageSize items per page. pageSize must be positive; zero total means
// zero pages.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
