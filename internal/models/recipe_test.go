// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package models

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestRecipeUnmarshalJSON(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"idMeal": "52772",
		"strMeal": "Teriyaki Chicken Casserole",
		"strCategory": "Chicken",
		"strArea": "Japanese",
		"strMealThumb": "https://example.test/thumb.jpg",
		"strIngredient1": "soy sauce",
		"strMeasure1": "3/4 cup",
		"strIngredient2": "water",
		"strMeasure2": "1/2 cup",
		"strIngredient3": "",
		"strMeasure3": "",
		"strIngredient4": null,
		"strMeasure4": null,
		"strIngredient20": "sesame seed",
		"strCreativeCommonsConfirmed": null,
		"dateModified": "2019-08-01"
	}`)

	var r Recipe
	if err := json.Unmarshal(payload, &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if r.ID != "52772" {
		t.Errorf("ID = %q, want %q", r.ID, "52772")
	}
	if r.Name != "Teriyaki Chicken Casserole" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Ingredients[0] != "soy sauce" || r.Measures[0] != "3/4 cup" {
		t.Errorf("slot 1 = (%q, %q)", r.Ingredients[0], r.Measures[0])
	}
	if r.Ingredients[19] != "sesame seed" {
		t.Errorf("slot 20 = %q", r.Ingredients[19])
	}
	if r.Ingredients[3] != "" {
		t.Errorf("null slot 4 = %q, want empty", r.Ingredients[3])
	}
	if got := r.Extra["dateModified"]; got != "2019-08-01" {
		t.Errorf("Extra[dateModified] = %q", got)
	}
	if got := r.Extra["strCreativeCommonsConfirmed"]; got != "" {
		t.Errorf("Extra null field = %q, want empty string", got)
	}
}

func TestRecipeMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	original := Recipe{
		ID:   "52940",
		Name: "Brown Stew Chicken",
	}
	original.Ingredients[0] = "Chicken"
	original.Measures[0] = "1 whole"

	data, err := json.Marshal(&original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Recipe
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.ID != original.ID || decoded.Ingredients[0] != "Chicken" {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestIngredientEntries(t *testing.T) {
	t.Parallel()

	var r Recipe
	r.Ingredients[0] = " Chicken "
	r.Measures[0] = " 1 whole "
	r.Ingredients[1] = "   "
	r.Measures[1] = "2 tbsp"
	r.Ingredients[4] = "Garlic"
	// slot 5 has a name but no measure
	r.Ingredients[5] = "Thyme"

	entries := r.IngredientEntries()
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Slot != 1 || entries[0].Name != "Chicken" || entries[0].Measure != "1 whole" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Slot != 5 || entries[1].Name != "Garlic" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
	if entries[2].Slot != 6 || entries[2].Measure != "" {
		t.Errorf("entries[2] = %+v", entries[2])
	}
}

func TestIngredientEntriesEmptyRecipe(t *testing.T) {
	t.Parallel()

	var r Recipe
	if got := r.IngredientEntries(); len(got) != 0 {
		t.Errorf("empty recipe produced %d entries", len(got))
	}
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{"partial last page", 13, 6, 3},
		{"exact multiple", 12, 6, 2},
		{"single item", 1, 6, 1},
		{"zero total", 0, 6, 0},
		{"zero page size", 13, 0, 0},
		{"negative total", -1, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PageCount(tt.total, tt.pageSize); got != tt.want {
				t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
			}
		})
	}
}
