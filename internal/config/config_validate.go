// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateMealDB(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMealDB() error {
	if c.MealDB.BaseURL == "" {
		return fmt.Errorf("MEALDB_BASE_URL is required")
	}
	u, err := url.Parse(c.MealDB.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("MEALDB_BASE_URL is invalid: %q", c.MealDB.BaseURL)
	}
	if c.MealDB.APIKey == "" {
		return fmt.Errorf("MEALDB_API_KEY is required")
	}
	if c.MealDB.Timeout <= 0 {
		return fmt.Errorf("MEALDB_TIMEOUT must be positive")
	}
	if c.MealDB.MaxRetries < 0 {
		return fmt.Errorf("MEALDB_MAX_RETRIES must not be negative")
	}
	if c.MealDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("MEALDB_REQUESTS_PER_SECOND must be positive")
	}
	if c.MealDB.Burst < 1 {
		return fmt.Errorf("MEALDB_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}
	switch c.Server.Environment {
	case "development", "production", "test":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, production, or test, got %q", c.Server.Environment)
	}
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must not be below API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("API_RATE_LIMIT_REQS must be at least 1")
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("API_RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.MaxCandidates < 1 {
		return fmt.Errorf("SEARCH_MAX_CANDIDATES must be at least 1")
	}
	if c.Search.DetailConcurrency < 1 {
		return fmt.Errorf("SEARCH_DETAIL_CONCURRENCY must be at least 1")
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("SEARCH_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
