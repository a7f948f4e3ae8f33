package assetcache

import (
	"container/list"
	"context"
	"sync"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

var (
	_ Requester = &AssetCache{}
	_ Reader    = &AssetCache{}
	_ Purger    = &AssetCache{}
	_ Walker    = &AssetCache{}
)

// load is a single in-flight call of OnLoad.
type load struct {
	params    interface{}
	waiters   []Callback
	completed bool
}

// entry is a cache slot, it is either loading (load != nil) or loaded.
type entry struct {
	key        string
	asset      interface{}
	load       *load
	lastAccess uint64
}

// AssetCache is a bounded cache of asynchronously loaded assets with LRU eviction.
//
// Please use NewAssetCache to create instance.
type AssetCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // Front is the most recently used entry, back is the least.
	access  uint64

	config   Config
	log      ctxd.Logger
	stat     stats.Tracker
	sched    Scheduler
	ownSched *Dispatcher
}

// NewAssetCache creates an asset cache instance.
//
// Config.OnLoad is mandatory, ErrLoaderMissing is returned without it.
func NewAssetCache(cfg Config) (*AssetCache, error) {
	if cfg.OnLoad == nil {
		return nil, ErrLoaderMissing
	}

	config := cfg.withDefaults()

	c := &AssetCache{
		entries: make(map[string]*list.Element, config.Capacity),
		lru:     list.New(),
		config:  config,
		log:     config.Logger,
		stat:    config.Stats,
		sched:   config.Scheduler,
	}

	if c.sched == nil {
		c.ownSched = NewDispatcher(func(cfg *DispatcherConfig) {
			cfg.QueueSize = config.Capacity
			cfg.Logger = config.Logger
		})
		c.sched = c.ownSched
	}

	return c, nil
}

// Exists is true if the key is loading or loaded.
func (c *AssetCache) Exists(key string) bool {
	c.mu.Lock()
	_, found := c.entries[key]
	c.mu.Unlock()

	return found
}

// IsLoading is true if the key has a load in flight.
func (c *AssetCache) IsLoading(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, found := c.entries[key]

	return found && el.Value.(*entry).load != nil
}

// Get returns loaded asset and marks it as recently used.
//
// Nil is returned for missing keys and for keys that are still loading, use IsLoading to tell them apart.
func (c *AssetCache) Get(ctx context.Context, key string) interface{} {
	c.mu.Lock()
	el, found := c.entries[key]

	if !found {
		c.mu.Unlock()

		return nil
	}

	e := el.Value.(*entry)
	c.touch(el)
	asset, loading := e.asset, e.load != nil
	c.mu.Unlock()

	if !loading {
		c.stat.Add(ctx, MetricHit, 1, "name", c.config.Name)
	}

	return asset
}

// Request delivers the asset of a key to the callback, cb can be nil.
//
// Loaded asset is passed to cb through Scheduler, never before Request returns.
// If the key is being loaded, cb waits for that load.
// Otherwise a new load is started, evicting the least recently used entry if cache is full.
// Evicted asset is passed to OnDestroy before the new key is added.
func (c *AssetCache) Request(ctx context.Context, key string, params interface{}, cb Callback) {
	c.mu.Lock()

	for {
		if el, found := c.entries[key]; found {
			c.requestExisting(ctx, el, key, params, cb)

			return
		}

		if len(c.entries) < c.config.Capacity {
			break
		}

		// Freed room may be taken by a concurrent request while OnDestroy runs.
		ev := c.evictLocked()
		c.mu.Unlock()

		c.evicted(ctx, ev)

		c.mu.Lock()
	}

	ld := &load{params: params}
	if cb != nil {
		ld.waiters = append(ld.waiters, cb)
	}

	c.access++
	c.entries[key] = c.lru.PushFront(&entry{key: key, load: ld, lastAccess: c.access})
	cnt := len(c.entries)
	c.mu.Unlock()

	c.log.Debug(ctx, "asset cache miss", "name", c.config.Name, "key", key)
	c.stat.Add(ctx, MetricMiss, 1, "name", c.config.Name)
	c.stat.Set(ctx, MetricItems, float64(cnt), "name", c.config.Name)

	lctx := detachedContext{ctx: ctx}
	c.config.OnLoad(lctx, key, params, c.onLoaded(lctx, key, ld))
}

// requestExisting handles Request of a loading or loaded key, it unlocks c.mu.
func (c *AssetCache) requestExisting(ctx context.Context, el *list.Element, key string, params interface{}, cb Callback) {
	e := el.Value.(*entry)
	c.touch(el)

	if e.load != nil {
		if cb != nil {
			e.load.waiters = append(e.load.waiters, cb)
		}
		c.mu.Unlock()

		c.log.Debug(ctx, "waiting for asset", "name", c.config.Name, "key", key)
		c.stat.Add(ctx, MetricWait, 1, "name", c.config.Name)

		return
	}

	asset := e.asset
	c.mu.Unlock()

	c.log.Debug(ctx, "asset cache hit", "name", c.config.Name, "key", key)
	c.stat.Add(ctx, MetricHit, 1, "name", c.config.Name)

	if cb != nil {
		c.sched.Schedule(func() {
			cb(key, asset, params)
		})
	}
}

// onLoaded returns the completion callback of a load.
func (c *AssetCache) onLoaded(ctx context.Context, key string, ld *load) func(asset interface{}) {
	return func(asset interface{}) {
		c.mu.Lock()

		if ld.completed {
			c.mu.Unlock()
			c.log.Warn(ctx, "asset load completed more than once", "name", c.config.Name, "key", key)

			return
		}

		ld.completed = true
		waiters := ld.waiters
		ld.waiters = nil

		el, found := c.entries[key]
		current := found && el.Value.(*entry).load == ld

		if current {
			if asset == nil {
				// Failed load does not occupy a slot, so that next request can retry.
				delete(c.entries, key)
				c.lru.Remove(el)
			} else {
				e := el.Value.(*entry)
				e.asset = asset
				e.load = nil
				c.touch(el)
			}
		}
		c.mu.Unlock()

		switch {
		case !current:
			c.log.Debug(ctx, "discarding superseded asset", "name", c.config.Name, "key", key)
			c.stat.Add(ctx, MetricSupersede, 1, "name", c.config.Name)

			if asset != nil {
				c.destroy(ctx, key, asset)
			}

			asset = nil
		case asset == nil:
			c.log.Debug(ctx, "asset loaded empty", "name", c.config.Name, "key", key)
		default:
			c.log.Debug(ctx, "asset loaded", "name", c.config.Name, "key", key)
			c.stat.Add(ctx, MetricLoad, 1, "name", c.config.Name)
		}

		for _, cb := range waiters {
			cb(key, asset, ld.params)
		}
	}
}

// touch marks entry as the most recently used.
func (c *AssetCache) touch(el *list.Element) {
	c.access++
	el.Value.(*entry).lastAccess = c.access
	c.lru.MoveToFront(el)
}

func (c *AssetCache) destroy(ctx context.Context, key string, asset interface{}) {
	if c.config.OnDestroy == nil {
		return
	}

	c.stat.Add(ctx, MetricDestroy, 1, "name", c.config.Name)
	c.config.OnDestroy(ctx, key, asset)
}

// Len returns number of entries in cache, loading ones included.
func (c *AssetCache) Len() int {
	c.mu.Lock()
	cnt := len(c.entries)
	c.mu.Unlock()

	return cnt
}

// Capacity returns maximum number of entries.
func (c *AssetCache) Capacity() int {
	return c.config.Capacity
}

// Keys returns keys from the most to the least recently used.
func (c *AssetCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.lru.Len())
	for el := c.lru.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry).key)
	}

	return keys
}

// Walk walks loaded assets from the most to the least recently used.
//
// Recency is not affected.
func (c *AssetCache) Walk(walkFn func(key string, asset interface{}) error) (int, error) {
	c.mu.Lock()
	loaded := make([]entry, 0, c.lru.Len())

	for el := c.lru.Front(); el != nil; el = el.Next() {
		if e := el.Value.(*entry); e.load == nil {
			loaded = append(loaded, *e)
		}
	}
	c.mu.Unlock()

	n := 0

	for _, e := range loaded {
		if err := walkFn(e.key, e.asset); err != nil {
			return n, err
		}

		n++
	}

	return n, nil
}

// Purge drops all entries and returns their count.
//
// Loaded assets are passed to OnDestroy, loads in flight are superseded.
func (c *AssetCache) Purge(ctx context.Context) int {
	c.mu.Lock()
	dropped := make([]entry, 0, c.lru.Len())

	for el := c.lru.Front(); el != nil; el = el.Next() {
		dropped = append(dropped, *el.Value.(*entry))
	}

	c.entries = make(map[string]*list.Element, c.config.Capacity)
	c.lru.Init()
	c.mu.Unlock()

	for _, e := range dropped {
		if e.load == nil {
			c.destroy(ctx, e.key, e.asset)
		}
	}

	c.log.Debug(ctx, "purged asset cache", "name", c.config.Name, "count", len(dropped))
	c.stat.Set(ctx, MetricItems, 0, "name", c.config.Name)

	return len(dropped)
}

// Close purges cache and stops the default Scheduler.
//
// Scheduler provided with Config is not closed.
func (c *AssetCache) Close() {
	c.Purge(context.Background())

	if c.ownSched != nil {
		c.ownSched.Close()
	}
}
