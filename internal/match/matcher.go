// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

// Package match decides whether a pantry ingredient can be considered
// present in a recipe's free-text ingredient string.
//
// Matching is pure string computation: normalize both sides, check
// exact equality, apply the policy's special cases, then fall through
// to substring matching guarded by modifier-word and length rules.
// The rules themselves are data (Policy), not code.
package match

import "strings"

// Result classifies the strength of a match between a recipe
// ingredient and a pantry ingredient.
type Result int

const (
	// MatchNone means the strings are unrelated under the policy.
	MatchNone Result = iota
	// MatchPartial means the pantry name was found inside the recipe
	// ingredient and passed the policy's guards.
	MatchPartial
	// MatchExact means the normalized strings are identical.
	MatchExact
)

// String returns the lowercase name of the result.
func (r Result) String() string {
	switch r {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	default:
		return "none"
	}
}

// Normalize prepares an ingredient name for comparison: trim
// surrounding whitespace and lower-case. Every comparison in this
// package operates on normalized strings.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matcher applies a Policy to ingredient-name pairs. Construct once
// and share freely; it is immutable after NewMatcher.
type Matcher struct {
	minPartialLength int
	modifiers        []string

	// exclusive maps a normalized name to the set of names it must
	// never partial-match, in both directions.
	exclusive map[string]map[string]struct{}

	// broad maps a normalized pantry term to its excluded compound
	// forms.
	broad map[string]map[string]struct{}
}

// NewMatcher compiles a Policy into a Matcher. Policy strings are
// normalized during compilation so lookups are straight map hits.
func NewMatcher(policy Policy) *Matcher {
	m := &Matcher{
		minPartialLength: policy.MinPartialLength,
		modifiers:        make([]string, 0, len(policy.ModifierWords)),
		exclusive:        make(map[string]map[string]struct{}, len(policy.ExclusivePairs)*2),
		broad:            make(map[string]map[string]struct{}, len(policy.BroadTerms)),
	}

	for _, w := range policy.ModifierWords {
		if w = Normalize(w); w != "" {
			m.modifiers = append(m.modifiers, w)
		}
	}

	for _, pair := range policy.ExclusivePairs {
		a, b := Normalize(pair.A), Normalize(pair.B)
		if a == "" || b == "" {
			continue
		}
		addExclusion(m.exclusive, a, b)
		addExclusion(m.exclusive, b, a)
	}

	for _, term := range policy.BroadTerms {
		t := Normalize(term.Term)
		if t == "" {
			continue
		}
		exceptions := make(map[string]struct{}, len(term.Exceptions))
		for _, e := range term.Exceptions {
			if e = Normalize(e); e != "" {
				exceptions[e] = struct{}{}
			}
		}
		m.broad[t] = exceptions
	}

	return m
}

func addExclusion(set map[string]map[string]struct{}, from, to string) {
	if set[from] == nil {
		set[from] = make(map[string]struct{})
	}
	set[from][to] = struct{}{}
}

// IsCompatible reports whether the pantry ingredient can be considered
// present in the recipe ingredient string. The pantry name is the
// needle, the recipe ingredient the haystack.
func (m *Matcher) IsCompatible(recipeIngredient, pantryIngredient string) bool {
	return m.Classify(recipeIngredient, pantryIngredient) != MatchNone
}

// Classify returns the match strength between a recipe ingredient and
// a pantry ingredient. Total over all string inputs; never fails.
func (m *Matcher) Classify(recipeIngredient, pantryIngredient string) Result {
	recipe := Normalize(recipeIngredient)
	pantry := Normalize(pantryIngredient)

	// Exact equality short-circuits everything, including exclusions.
	if recipe == pantry {
		if recipe == "" {
			return MatchNone
		}
		return MatchExact
	}

	// Special cases run before the general rule and may force either
	// answer. Exclusive pairs win over broad terms.
	if excluded, ok := m.exclusive[pantry]; ok {
		if _, hit := excluded[recipe]; hit {
			return MatchNone
		}
	}
	if exceptions, ok := m.broad[pantry]; ok && strings.Contains(recipe, pantry) {
		if _, hit := exceptions[recipe]; hit {
			return MatchNone
		}
		return MatchPartial
	}

	if m.partialMatch(recipe, pantry) {
		return MatchPartial
	}
	return MatchNone
}

// partialMatch applies the general substring rule: the pantry name
// must appear in the recipe string, be long enough to be meaningful,
// and no modifier word may first occur after it.
func (m *Matcher) partialMatch(recipe, pantry string) bool {
	if len(pantry) <= m.minPartialLength {
		return false
	}
	at := strings.Index(recipe, pantry)
	if at < 0 {
		return false
	}
	for _, modifier := range m.modifiers {
		// "beef stock" rejects "beef" because "stock" follows it; a
		// modifier before the match ("ground beef") does not block,
		// and an absent modifier (Index == -1) never blocks.
		if i := strings.Index(recipe, modifier); i > at {
			return false
		}
	}
	return true
}
