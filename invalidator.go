package assetcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bool64/ctxd"
)

// Invalidator is a registry of caches to purge together, for example on graphics device loss.
type Invalidator struct {
	sync.Mutex

	// SkipInterval defines minimal duration between two invalidations (flood protection), default 15s.
	SkipInterval time.Duration

	// Purgers contains caches to purge on invalidate.
	Purgers []Purger

	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	lastRun time.Time
}

// Invalidate purges all registered caches and returns total count of dropped entries.
func (i *Invalidator) Invalidate(ctx context.Context) (int, error) {
	i.Lock()
	defer i.Unlock()

	if len(i.Purgers) == 0 {
		return 0, ErrNothingToInvalidate
	}

	if i.SkipInterval == 0 {
		i.SkipInterval = 15 * time.Second
	}

	if time.Since(i.lastRun) < i.SkipInterval {
		return 0, fmt.Errorf("%w at %s, %s did not pass",
			ErrAlreadyInvalidated, i.lastRun.String(), i.SkipInterval.String())
	}

	i.lastRun = time.Now()
	cnt := 0

	for _, p := range i.Purgers {
		cnt += p.Purge(ctx)
	}

	if i.Logger != nil {
		i.Logger.Debug(ctx, "invalidated asset caches", "caches", len(i.Purgers), "count", cnt)
	}

	return cnt, nil
}
