// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package match

import "github.com/mbaxter87/larder/internal/models"

// Score computes how well a recipe covers the query ingredients. A
// query ingredient counts as matched when any of the recipe's
// extracted ingredient names is compatible with it. The returned
// MatchedIngredients are normalized and keep query order; duplicate
// query entries are counted once.
func (m *Matcher) Score(recipe *models.Recipe, queryIngredients []string) models.ScoredRecipe {
	entries := recipe.IngredientEntries()

	matched := make([]string, 0, len(queryIngredients))
	seen := make(map[string]struct{}, len(queryIngredients))
	for _, query := range queryIngredients {
		q := Normalize(query)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}

		for _, entry := range entries {
			if m.IsCompatible(entry.Name, q) {
				matched = append(matched, q)
				break
			}
		}
	}

	return models.ScoredRecipe{
		Recipe:             recipe,
		Score:              len(matched),
		MatchedIngredients: matched,
		TotalIngredients:   len(entries),
	}
}
