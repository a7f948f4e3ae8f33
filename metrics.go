package assetcache

// Metric names reported to stats.Tracker, every metric is labeled with "name" of cache instance.
const (
	MetricHit        = "asset_cache_hit"         // Request or Get found a loaded asset.
	MetricMiss       = "asset_cache_miss"        // Request started a new load.
	MetricWait       = "asset_cache_wait"        // Request joined an in-flight load.
	MetricLoad       = "asset_cache_load"        // Load completed and asset was stored.
	MetricEvict      = "asset_cache_evict"       // Entry was evicted to make room.
	MetricSupersede  = "asset_cache_supersede"   // Load completed after its entry was evicted.
	MetricDestroy    = "asset_cache_destroy"     // Asset was handed to OnDestroy.
	MetricLoadFailed = "asset_cache_load_failed" // Loader failed to build asset.
	MetricItems      = "asset_cache_items"       // Number of entries, gauge.
)
