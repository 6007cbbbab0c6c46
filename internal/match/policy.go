// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package match

// Policy is the data that drives ingredient matching. The word lists
// and special cases live here, as loadable configuration, so the
// matching behavior can be tuned and tested without touching the
// matcher's control flow.
type Policy struct {
	// MinPartialLength bounds partial matching: normalized pantry names
	// of this length or shorter ("egg", "oil") only match exactly,
	// which suppresses spurious substring hits.
	MinPartialLength int `json:"min_partial_length" koanf:"min_partial_length"`

	// ModifierWords invalidate a partial match when they first occur
	// after the pantry substring in the recipe ingredient. "beef" must
	// not match "beef stock", but "ground beef" is still beef.
	ModifierWords []string `json:"modifier_words" koanf:"modifier_words"`

	// ExclusivePairs name ingredient pairs that must never partial-match
	// each other in either direction despite substring overlap.
	ExclusivePairs []ExclusivePair `json:"exclusive_pairs" koanf:"exclusive_pairs"`

	// BroadTerms are pantry names that match any recipe ingredient
	// containing them, bypassing the modifier rules, except for the
	// listed compound forms.
	BroadTerms []BroadTerm `json:"broad_terms" koanf:"broad_terms"`
}

// ExclusivePair marks two ingredient names as mutually incompatible.
type ExclusivePair struct {
	A string `json:"a" koanf:"a"`
	B string `json:"b" koanf:"b"`
}

// BroadTerm widens a pantry name to container matching, minus the
// named exceptions.
type BroadTerm struct {
	Term       string   `json:"term" koanf:"term"`
	Exceptions []string `json:"exceptions" koanf:"exceptions"`
}

// DefaultPolicy returns the built-in matching policy. The word lists
// were collected empirically against TheMealDB's ingredient strings;
// treat additions as data changes, not code changes.
func DefaultPolicy() Policy {
	return Policy{
		MinPartialLength: 3,
		ModifierWords: []string{
			// form words
			"stock", "powder", "extract", "jus", "juice", "oil", "sauce",
			"broth", "concentrate", "essence", "granules", "ground",
			"minced", "paste", "syrup",
			// preparation words
			"canned", "jarred", "dried", "pickled", "cured", "smoked",
			"candied",
			// part words
			"seed", "root", "leaf",
			// chemical words
			"starch", "flour",
			// other
			"cream of", "substitute", "artificial",
		},
		ExclusivePairs: []ExclusivePair{
			{A: "cream", B: "coconut cream"},
		},
		BroadTerms: []BroadTerm{
			// Known gap: this also admits forms like "cheese powder"
			// that the modifier rules would otherwise reject. Only the
			// two compounds below are excluded on purpose.
			{Term: "cheese", Exceptions: []string{"cream cheese", "cheese sauce"}},
		},
	}
}
