package assetcache

import (
	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// DefaultCapacity is the number of resident entries when Config.Capacity is not set.
const DefaultCapacity = 64

// Config controls asset cache instance.
type Config struct {
	// Name is cache instance name, used in stats and logging.
	Name string

	// Capacity is the maximum number of resident entries, loading ones included, default 64.
	Capacity int

	// OnLoad fetches assets, mandatory.
	OnLoad LoadFunc

	// OnDestroy releases evicted or superseded assets, can be nil.
	OnDestroy DestroyFunc

	// Scheduler defers callbacks of cache hits, a Dispatcher owned by cache is created by default.
	Scheduler Scheduler

	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker
}

func (cfg Config) withDefaults() Config {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}

	if cfg.Logger == nil {
		cfg.Logger = ctxd.NoOpLogger{}
	}

	if cfg.Stats == nil {
		cfg.Stats = stats.NoOp{}
	}

	return cfg
}
