// Package cache provides a generic sharded LRU cache.
//
// The render pipeline uses it to memoize recently seen pane descriptions by
// cache key, so a pane that returns to a recent state (focus toggled back,
// scrollback restored) reuses its command list without re-describing.
//
//	c := cache.NewSharded[uint64, string](256, cache.Uint64Hasher)
//	c.Set(key, value)
//	value, ok := c.Get(key)
//
// ShardedCache is safe for concurrent use and must not be copied after
// creation.
package cache
