// Larder - Pantry-Driven Recipe Search and Ranking
// Copyright 2026 M. Baxter (mbaxter87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mbaxter87/larder

package search

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mbaxter87/larder/internal/metrics"
	"github.com/mbaxter87/larder/internal/models"
)

// DetailCache memoizes recipe detail records for one search session.
// It is constructed explicitly, passed explicitly, and discarded with
// the session; it is never a process-wide singleton. Concurrent
// requests for the same id are coalesced so each id is fetched at most
// once per pass. Fetch errors are not cached.
type DetailCache struct {
	mu    sync.RWMutex
	items map[string]*models.Recipe
	group singleflight.Group
}

// NewDetailCache creates an empty session cache.
func NewDetailCache() *DetailCache {
	return &DetailCache{
		items: make(map[string]*models.Recipe),
	}
}

// GetOrFetch returns the cached detail for id, or invokes fetch,
// stores its result, and returns it. Concurrent callers for the same
// id share one fetch.
func (c *DetailCache) GetOrFetch(ctx context.Context, id string, fetch func(context.Context) (*models.Recipe, error)) (*models.Recipe, error) {
	c.mu.RLock()
	recipe, ok := c.items[id]
	c.mu.RUnlock()
	if ok {
		metrics.DetailCacheHits.Inc()
		return recipe, nil
	}

	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		// Recheck under the flight: a just-completed fetch may have
		// populated the entry between the read above and Do.
		c.mu.RLock()
		cached, found := c.items[id]
		c.mu.RUnlock()
		if found {
			return cached, nil
		}

		metrics.DetailCacheMisses.Inc()
		fetched, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}

		c.mu.Lock()
		c.items[id] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Recipe), nil
}

// Get returns the cached detail for id, if present.
func (c *DetailCache) Get(id string) (*models.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recipe, ok := c.items[id]
	return recipe, ok
}

// Len returns the number of cached recipes.
func (c *DetailCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
