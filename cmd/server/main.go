// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

// Package main is the entry point for the Larder server.
//
// Larder answers one question: given the ingredients in your pantry,
// which recipes can you actually cook? It queries TheMealDB for
// candidate recipes per ingredient, resolves full recipe details, and
// ranks candidates by how many pantry ingredients each recipe can use
// under the ingredient compatibility rules.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Provider client: TheMealDB HTTP client with rate limiting, retries,
//     and an optional circuit breaker
//  3. Matcher: Ingredient compatibility policy compiled from configuration
//  4. Search engine: Candidate gathering, detail resolution, scoring, pagination
//  5. HTTP server: REST API (Chi) with CORS, per-IP rate limiting, and Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (MEALDB_API_KEY, HTTP_PORT, LOG_LEVEL, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// The public TheMealDB test key "1" is the default, so the server runs
// with no configuration at all:
//
//	./larder
//
// Production with a paid key and JSON logs:
//
//	export MEALDB_API_KEY=your-key
//	export LOG_FORMAT=json
//	./larder
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbaxter87/larder/internal/api"
	"github.com/mbaxter87/larder/internal/config"
	"github.com/mbaxter87/larder/internal/logging"
	"github.com/mbaxter87/larder/internal/match"
	"github.com/mbaxter87/larder/internal/mealdb"
	"github.com/mbaxter87/larder/internal/models"
	"github.com/mbaxter87/larder/internal/search"
)

// provider is what main needs from a TheMealDB client. Both the plain
// client and the circuit-breaker wrapper satisfy it.
type provider interface {
	FilterByIngredient(ctx context.Context, ingredient string) ([]models.RecipeSummary, error)
	Lookup(ctx context.Context, id string) (*models.Recipe, error)
	Random(ctx context.Context) (*models.Recipe, error)
	Ping(ctx context.Context) error
}

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("base_url", cfg.MealDB.BaseURL).
		Bool("breaker_enabled", cfg.MealDB.BreakerEnabled).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Larder")

	client := mealdb.NewClient(cfg.MealDB)
	var recipes provider = client
	if cfg.MealDB.BreakerEnabled {
		recipes = mealdb.NewBreakerClient(client)
	}

	// Reachability check is advisory: the provider may recover later,
	// and the circuit breaker handles sustained outages.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.MealDB.Timeout)
	if err := recipes.Ping(pingCtx); err != nil {
		logging.Warn().Err(err).Msg("Recipe provider unreachable at startup (will retry on demand)")
	} else {
		logging.Info().Msg("Connected to recipe provider")
	}
	pingCancel()

	matcher := match.NewMatcher(cfg.Matcher.Policy())
	engine := search.NewEngine(recipes, matcher, cfg.Search)

	handler := api.NewHandler(engine, recipes, cfg.API.DefaultPageSize, cfg.API.MaxPageSize)
	router := api.NewRouter(handler, cfg.API)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
