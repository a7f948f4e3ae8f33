package assetcache

import (
	"context"
	"errors"

	"github.com/bool64/cache"
	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// BuildFunc builds an asset, blocking until it is ready or failed.
type BuildFunc func(ctx context.Context, key string, params interface{}) (interface{}, error)

// LoaderConfig controls NewLoader.
type LoaderConfig struct {
	// Name is loader name, used in stats and logging.
	Name string

	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker

	// Failover locks builds per key and caches build failures, default instance is created if nil.
	//
	// Default instance does not store built values, evicted asset is built again on next request.
	// Custom Failover with a storing backend serves values without a build within its time to live.
	Failover *cache.Failover
}

// NewLoader creates LoadFunc that runs build in a separate goroutine.
//
// Failed builds are logged and reported to cache as nil assets.
func NewLoader(build BuildFunc, options ...func(cfg *LoaderConfig)) LoadFunc {
	cfg := LoaderConfig{}

	for _, option := range options {
		option(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = ctxd.NoOpLogger{}
	}

	if cfg.Stats == nil {
		cfg.Stats = stats.NoOp{}
	}

	if cfg.Failover == nil {
		cfg.Failover = cache.NewFailover(cache.FailoverConfig{
			Name:   cfg.Name,
			Logger: cfg.Logger,
			Stats:  cfg.Stats,

			// Assets are owned by AssetCache, Failover only locks builds and caches failures.
			Backend:    cache.NoOp{},
			SyncUpdate: true,
		}.Use)
	}

	return func(ctx context.Context, key string, params interface{}, done func(asset interface{})) {
		go func() {
			buildFunc := func(ctx context.Context) (interface{}, error) {
				return build(ctx, key, params)
			}

			asset, err := cfg.Failover.Get(ctx, []byte(key), buildFunc)

			// Without stored values, a load that waited for a concurrent build of the key finds nothing.
			if errors.Is(err, cache.ErrNotFound) {
				asset, err = cfg.Failover.Get(ctx, []byte(key), buildFunc)
			}

			if err != nil {
				err = ctxd.WrapError(ctx, err, "failed to load asset", "key", key)

				cfg.Logger.Warn(ctx, "asset load failed",
					"name", cfg.Name,
					"key", key,
					"error", err,
				)
				cfg.Stats.Add(ctx, MetricLoadFailed, 1, "name", cfg.Name)

				done(nil)

				return
			}

			done(asset)
		}()
	}
}
