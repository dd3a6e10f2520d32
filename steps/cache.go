// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package steps

import (
	"sync"
	"time"
)

const cacheCleanupInterval = 10 * time.Minute

// parseCache is a time-to-live cache of parse results keyed by an input hash.
// Callers must call Close() when done to stop the background cleanup goroutine.
type parseCache struct {
	items     map[uint64]*cacheItem
	ttl       time.Duration
	mu        sync.RWMutex
	cleanup   chan struct{}
	closeOnce sync.Once
}

type cacheItem struct {
	steps     []Step
	tier      Tier
	expiresAt time.Time
}

func newParseCache(ttl time.Duration) *parseCache {
	cache := &parseCache{
		items:   make(map[uint64]*cacheItem),
		ttl:     ttl,
		cleanup: make(chan struct{}),
	}

	go cache.startCleanup(cleanupInterval(ttl))

	return cache
}

// cleanupInterval sweeps at most every cacheCleanupInterval, sooner for short TTLs
func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < cacheCleanupInterval {
		return ttl
	}
	return cacheCleanupInterval
}

// get returns the cached result for key, ignoring expired entries
func (c *parseCache) get(key uint64) ([]Step, Tier, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiresAt) {
		return nil, TierNone, false
	}

	return item.steps, item.tier, true
}

func (c *parseCache) set(key uint64, steps []Step, tier Tier) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem{
		steps:     steps,
		tier:      tier,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *parseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[uint64]*cacheItem)
}

func (c *parseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// stats returns cache statistics for monitoring
func (c *parseCache) stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	expired := 0
	for _, item := range c.items {
		if now.After(item.expiresAt) {
			expired++
		}
	}

	return map[string]interface{}{
		"total_items":   len(c.items),
		"expired_items": expired,
		"ttl_seconds":   c.ttl.Seconds(),
	}
}

// close stops the background cleanup goroutine.
// Safe to call multiple times - only the first call has effect.
func (c *parseCache) close() {
	c.closeOnce.Do(func() {
		close(c.cleanup)
	})
}

func (c *parseCache) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpiredItems()
		case <-c.cleanup:
			return
		}
	}
}

func (c *parseCache) removeExpiredItems() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}
