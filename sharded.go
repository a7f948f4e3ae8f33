package assetcache

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

var (
	_ Requester = &ShardedAssetCache{}
	_ Reader    = &ShardedAssetCache{}
	_ Purger    = &ShardedAssetCache{}
)

// ShardedAssetCache spreads keys over independent asset caches to reduce lock contention.
//
// Eviction order is maintained per shard.
type ShardedAssetCache struct {
	shards   []*AssetCache
	ownSched *Dispatcher
}

// NewShardedAssetCache creates a cache of shards AssetCache instances.
//
// Config.Capacity is split between shards so that their sum is exactly Config.Capacity,
// shards count is reduced to Config.Capacity if it is larger.
// Shards share Config.Scheduler or a single default Dispatcher.
func NewShardedAssetCache(cfg Config, shards int) (*ShardedAssetCache, error) {
	if cfg.OnLoad == nil {
		return nil, ErrLoaderMissing
	}

	config := cfg.withDefaults()

	if shards <= 0 {
		shards = 1
	}

	if shards > config.Capacity {
		shards = config.Capacity
	}

	c := &ShardedAssetCache{
		shards: make([]*AssetCache, shards),
	}

	if config.Scheduler == nil {
		c.ownSched = NewDispatcher(func(dc *DispatcherConfig) {
			dc.QueueSize = config.Capacity
			dc.Logger = config.Logger
		})
		config.Scheduler = c.ownSched
	}

	for i := range c.shards {
		sc := config
		sc.Capacity = shardCapacity(config.Capacity, shards, i)

		if config.Name != "" {
			sc.Name = config.Name + "_" + strconv.Itoa(i)
		}

		s, err := NewAssetCache(sc)
		if err != nil {
			return nil, err
		}

		c.shards[i] = s
	}

	return c, nil
}

// shardCapacity spreads the remainder of capacity over first shards.
func shardCapacity(capacity, shards, i int) int {
	n := capacity / shards
	if i < capacity%shards {
		n++
	}

	return n
}

func (c *ShardedAssetCache) shard(key string) *AssetCache {
	return c.shards[xxhash.Sum64String(key)%uint64(len(c.shards))]
}

// Exists is true if the key is loading or loaded.
func (c *ShardedAssetCache) Exists(key string) bool {
	return c.shard(key).Exists(key)
}

// IsLoading is true if the key has a load in flight.
func (c *ShardedAssetCache) IsLoading(key string) bool {
	return c.shard(key).IsLoading(key)
}

// Get returns loaded asset or nil.
func (c *ShardedAssetCache) Get(ctx context.Context, key string) interface{} {
	return c.shard(key).Get(ctx, key)
}

// Request delivers the asset of a key to the callback, see AssetCache.Request.
func (c *ShardedAssetCache) Request(ctx context.Context, key string, params interface{}, cb Callback) {
	c.shard(key).Request(ctx, key, params, cb)
}

// Capacity returns maximum number of entries in all shards.
func (c *ShardedAssetCache) Capacity() int {
	cnt := 0
	for _, s := range c.shards {
		cnt += s.Capacity()
	}

	return cnt
}

// Len returns number of entries in all shards.
func (c *ShardedAssetCache) Len() int {
	cnt := 0
	for _, s := range c.shards {
		cnt += s.Len()
	}

	return cnt
}

// Purge drops entries of all shards and returns their count.
func (c *ShardedAssetCache) Purge(ctx context.Context) int {
	cnt := 0
	for _, s := range c.shards {
		cnt += s.Purge(ctx)
	}

	return cnt
}

// Close purges all shards and stops the default Scheduler.
func (c *ShardedAssetCache) Close() {
	c.Purge(context.Background())

	if c.ownSched != nil {
		c.ownSched.Close()
	}
}
