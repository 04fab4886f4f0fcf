package frame

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/cache"
	"github.com/gogpu/termdraw/command"
)

// memoCapacity is the per-shard capacity of the description memo.
const memoCapacity = 64

// PaneCache retains each pane's previously computed description across
// frames, keyed by pane ID and validated by CacheKey. A hit means the pane
// does not need to be re-described; the entry's skip streak counts how many
// consecutive frames that held.
//
// Behind the per-pane entries sits an LRU memo of recently seen descriptions
// keyed by cache key. A pane that returns to a recent state (focus toggled
// back, a scroll position revisited) reuses the memoized command list
// without re-describing.
//
// It is thread-safe and uses atomic counters for statistics.
type PaneCache struct {
	mu      sync.Mutex
	entries map[int]*paneCacheEntry
	memo    *cache.ShardedCache[uint64, memoDescription]

	// Statistics (atomic for zero-allocation reads)
	hits   atomic.Uint64
	misses atomic.Uint64
}

type paneCacheEntry struct {
	key         CacheKey
	commands    []command.Command
	bounds      termdraw.Rect
	fingerprint uint64
	skipStreak  int
}

// memoDescription is a memoized description for one pane state.
type memoDescription struct {
	commands    []command.Command
	fingerprint uint64
}

// CacheStats contains pane cache statistics for monitoring.
type CacheStats struct {
	// Entries is the number of panes with a cached description.
	Entries int
	// Hits is the number of cache hits, current-entry and memo combined.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// HitRate is the cache hit rate (0.0 to 1.0).
	HitRate float64
}

// NewPaneCache creates an empty pane cache.
func NewPaneCache() *PaneCache {
	return &PaneCache{
		entries: make(map[int]*paneCacheEntry),
		memo:    cache.NewSharded[uint64, memoDescription](memoCapacity, cache.Uint64Hasher),
	}
}

// Describe resolves a pane into a PaneEntry, reusing the cached description
// when the derived cache key matches the previous frame's. On a current-entry
// miss the memo is consulted before falling back to p.Describe; a fresh
// describe content-hashes the commands and stores the entry with the streak
// reset to zero.
func (c *PaneCache) Describe(p Pane, active bool, gen Generations) (PaneEntry, error) {
	bounds := p.Bounds()
	key := NewCacheKey(p.ContentFingerprint(), bounds, active, gen)

	c.mu.Lock()
	entry, ok := c.entries[p.ID()]
	if ok && entry.key == key {
		entry.skipStreak++
		pe := PaneEntry{
			PaneID:      p.ID(),
			IsActive:    active,
			Bounds:      entry.bounds,
			Fingerprint: entry.fingerprint,
			Key:         key,
			Commands:    entry.commands,
			SkipStreak:  entry.skipStreak,
		}
		c.mu.Unlock()
		c.hits.Add(1)
		return pe, nil
	}
	c.mu.Unlock()

	if desc, ok := c.memo.Get(uint64(key)); ok {
		c.storeEntry(p.ID(), key, desc.commands, bounds, desc.fingerprint)
		c.hits.Add(1)
		return PaneEntry{
			PaneID:      p.ID(),
			IsActive:    active,
			Bounds:      bounds,
			Fingerprint: desc.fingerprint,
			Key:         key,
			Commands:    desc.commands,
			SkipStreak:  0,
		}, nil
	}
	c.misses.Add(1)

	cmds, err := p.Describe()
	if err != nil {
		return PaneEntry{}, fmt.Errorf("frame: describe pane %d: %w", p.ID(), err)
	}
	fingerprint := command.ContentHash(cmds)

	c.storeEntry(p.ID(), key, cmds, bounds, fingerprint)
	c.memo.Set(uint64(key), memoDescription{commands: cmds, fingerprint: fingerprint})

	return PaneEntry{
		PaneID:      p.ID(),
		IsActive:    active,
		Bounds:      bounds,
		Fingerprint: fingerprint,
		Key:         key,
		Commands:    cmds,
		SkipStreak:  0,
	}, nil
}

func (c *PaneCache) storeEntry(paneID int, key CacheKey, cmds []command.Command, bounds termdraw.Rect, fingerprint uint64) {
	c.mu.Lock()
	c.entries[paneID] = &paneCacheEntry{
		key:         key,
		commands:    cmds,
		bounds:      bounds,
		fingerprint: fingerprint,
		skipStreak:  0,
	}
	c.mu.Unlock()
}

// Forget drops everything cached for a pane, typically when the pane is
// closed: its current entry and its memoized description.
func (c *PaneCache) Forget(paneID int) {
	c.mu.Lock()
	if entry, ok := c.entries[paneID]; ok {
		c.memo.Delete(uint64(entry.key))
	}
	delete(c.entries, paneID)
	c.mu.Unlock()
}

// InvalidateAll clears every cached description and the memo.
func (c *PaneCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[int]*paneCacheEntry)
	c.mu.Unlock()
	c.memo.Clear()
}

// SkipStreak returns the current skip streak for a pane, or zero if the
// pane has no cached entry.
func (c *PaneCache) SkipStreak(paneID int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[paneID]; ok {
		return entry.skipStreak
	}
	return 0
}

// Stats returns current cache statistics.
func (c *PaneCache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	total := hits + misses
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Entries: entries,
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
}

// MemoStats returns the description memo's statistics.
func (c *PaneCache) MemoStats() cache.Stats {
	return c.memo.Stats()
}

// ResetStats resets the hit and miss counters to zero.
func (c *PaneCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.memo.ResetStats()
}
