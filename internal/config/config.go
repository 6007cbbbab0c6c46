// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

// Package config defines Larder's configuration and loads it from
// layered sources: struct defaults, an optional YAML file, then
// environment variables.
package config

import (
	"time"

	"github.com/mbaxter87/larder/internal/match"
)

// Config is the root configuration for the Larder server.
type Config struct {
	MealDB  MealDBConfig  `koanf:"mealdb"`
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	Search  SearchConfig  `koanf:"search"`
	Matcher MatcherConfig `koanf:"matcher"`
	Logging LoggingConfig `koanf:"logging"`
}

// MealDBConfig configures the TheMealDB provider client.
type MealDBConfig struct {
	// BaseURL is the provider root, without the /api/json path.
	BaseURL string `koanf:"base_url"`

	// APIKey selects the keyed v2 API. The public test key is "1".
	APIKey string `koanf:"api_key"`

	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries bounds retry attempts when the provider answers 429.
	MaxRetries int           `koanf:"max_retries"`
	RetryDelay time.Duration `koanf:"retry_delay"`

	// RequestsPerSecond paces outgoing calls; Burst allows short spikes.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// BreakerEnabled wraps the client in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig configures the public API surface.
type APIConfig struct {
	// DefaultPageSize is used when a search request omits page_size.
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// SearchConfig configures the search engine.
type SearchConfig struct {
	// MaxCandidates caps the merged candidate set before detail
	// resolution, bounding provider load per search.
	MaxCandidates int `koanf:"max_candidates"`

	// DetailConcurrency bounds parallel detail fetches per search.
	DetailConcurrency int `koanf:"detail_concurrency"`

	Timeout time.Duration `koanf:"timeout"`
}

// MatcherConfig overrides the built-in matching policy. Zero-valued
// fields fall back to the defaults, so a config file only needs to
// name what it changes.
type MatcherConfig struct {
	MinPartialLength int                   `koanf:"min_partial_length"`
	ModifierWords    []string              `koanf:"modifier_words"`
	ExclusivePairs   []match.ExclusivePair `koanf:"exclusive_pairs"`
	BroadTerms       []match.BroadTerm     `koanf:"broad_terms"`
}

// Policy builds the effective matching policy, starting from the
// defaults and applying any configured overrides.
func (m MatcherConfig) Policy() match.Policy {
	policy := match.DefaultPolicy()
	if m.MinPartialLength > 0 {
		policy.MinPartialLength = m.MinPartialLength
	}
	if len(m.ModifierWords) > 0 {
		policy.ModifierWords = m.ModifierWords
	}
	if len(m.ExclusivePairs) > 0 {
		policy.ExclusivePairs = m.ExclusivePairs
	}
	if len(m.BroadTerms) > 0 {
		policy.BroadTerms = m.BroadTerms
	}
	return policy
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
