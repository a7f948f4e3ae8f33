// Package assetcache provides a bounded cache of asynchronously loaded assets.
// Focused on coalescing concurrent loads and releasing resources of evicted assets.
//
// Features:
//
//  - Least recently used eviction with O(1) touch and evict.
//  - Concurrent requests of a key that is being loaded share a single load.
//  - Waiters are notified exactly once, in request order.
//  - Cache hits are reported asynchronously, same as misses, via a pluggable Scheduler.
//  - Loads that lost their slot to eviction are discarded and released with OnDestroy.
//  - Allows logging, stats collection.
//  - Resilient loader adapter with failed build caching on top of github.com/bool64/cache.
//  - Sharded variant to reduce lock contention.
package assetcache
