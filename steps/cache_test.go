// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package steps

import (
	"testing"
	"time"
)

func TestParseCache_SetAndGet(t *testing.T) {
	cache := newParseCache(time.Minute)
	defer cache.close()

	cache.set(1, []Step{{Title: "one"}}, TierOrderedList)

	steps, tier, ok := cache.get(1)
	if !ok {
		t.Fatal("Expected cached entry for key 1")
	}
	if tier != TierOrderedList || len(steps) != 1 || steps[0].Title != "one" {
		t.Errorf("Unexpected cached value: %v %v", tier, steps)
	}

	if _, _, ok := cache.get(2); ok {
		t.Error("Expected miss for non-existent key")
	}
}

func TestParseCache_Expiration(t *testing.T) {
	cache := newParseCache(100 * time.Millisecond)
	defer cache.close()

	cache.set(1, nil, TierNone)
	if _, _, ok := cache.get(1); !ok {
		t.Fatal("Expected entry before expiry")
	}

	time.Sleep(150 * time.Millisecond)

	if _, _, ok := cache.get(1); ok {
		t.Error("Expected miss for expired key")
	}
}

func TestParseCache_Clear(t *testing.T) {
	cache := newParseCache(time.Minute)
	defer cache.close()

	cache.set(1, nil, TierNone)
	cache.set(2, nil, TierNone)
	cache.clear()

	if cache.size() != 0 {
		t.Errorf("Expected size 0 after clear, got %d", cache.size())
	}
}

func TestParseCache_RemoveExpiredItems(t *testing.T) {
	cache := newParseCache(time.Hour)
	defer cache.close()

	cache.set(1, nil, TierNone)
	cache.mu.Lock()
	cache.items[1].expiresAt = time.Now().Add(-time.Second)
	cache.mu.Unlock()
	cache.set(2, nil, TierNone)

	stats := cache.stats()
	if stats["expired_items"] != 1 {
		t.Errorf("Expected 1 expired item, got %v", stats["expired_items"])
	}

	cache.removeExpiredItems()

	if cache.size() != 1 {
		t.Errorf("Expected size 1 after cleanup, got %d", cache.size())
	}
}

func TestParseCache_CloseTwice(t *testing.T) {
	cache := newParseCache(time.Minute)
	cache.close()
	cache.close()
}

func TestCleanupInterval(t *testing.T) {
	if got := cleanupInterval(time.Second); got != time.Second {
		t.Errorf("Expected short TTL to be used as interval, got %v", got)
	}
	if got := cleanupInterval(24 * time.Hour); got != cacheCleanupInterval {
		t.Errorf("Expected interval capped at %v, got %v", cacheCleanupInterval, got)
	}
}
