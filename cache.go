package assetcache

import (
	"context"
)

// LoadFunc fetches an asset for the key and reports it by calling done exactly once.
//
// Asset may be nil if loading failed, cache treats done call as the only completion signal.
// LoadFunc must not block, done is expected to be called after LoadFunc returns.
type LoadFunc func(ctx context.Context, key string, params interface{}, done func(asset interface{}))

// DestroyFunc releases resources of an asset that is no longer held by cache.
//
// On eviction it is called before the requested key is added, with no cache lock held,
// so it may call cache methods.
type DestroyFunc func(ctx context.Context, key string, asset interface{})

// Callback receives requested asset.
//
// Asset is nil if the load was superseded by eviction of its entry.
type Callback func(key string, asset interface{}, params interface{})

// Scheduler runs tasks later, outside of the call stack of Schedule.
type Scheduler interface {
	Schedule(task func())
}

// Requester requests assets.
type Requester interface {
	// Request delivers the asset of a key to the callback, loading it if necessary.
	Request(ctx context.Context, key string, params interface{}, cb Callback)
}

// Reader reads resident assets.
type Reader interface {
	// Exists is true if the key is loading or loaded.
	Exists(key string) bool

	// IsLoading is true if the key has a load in flight.
	IsLoading(key string) bool

	// Get returns loaded asset or nil.
	Get(ctx context.Context, key string) interface{}
}

// Purger drops all entries and returns their count.
type Purger interface {
	Purge(ctx context.Context) int
}

// Walker calls function for every loaded asset and fails on first error returned by that function.
//
// Count of processed entries is returned.
type Walker interface {
	Walk(func(key string, asset interface{}) error) (int, error)
}
