package assetcache

import (
	"context"
)

// eviction describes entry that left cache to make room for a new key.
type eviction struct {
	key    string
	asset  interface{}
	loaded bool
}

// evictLocked removes the least recently used entry.
//
// Entries are moved to list front on every access, so list back holds the smallest access order.
// Must be called with c.mu held and non-empty cache.
func (c *AssetCache) evictLocked() eviction {
	e := c.lru.Remove(c.lru.Back()).(*entry)

	delete(c.entries, e.key)

	return eviction{
		key:    e.key,
		asset:  e.asset,
		loaded: e.load == nil,
	}
}

// evicted releases the asset of evicted entry.
//
// Entry that was still loading has nothing to release, its load is superseded.
func (c *AssetCache) evicted(ctx context.Context, ev eviction) {
	c.log.Debug(ctx, "evicting asset",
		"name", c.config.Name,
		"key", ev.key,
		"loaded", ev.loaded,
	)
	c.stat.Add(ctx, MetricEvict, 1, "name", c.config.Name)

	if ev.loaded {
		c.destroy(ctx, ev.key, ev.asset)
	}
}
