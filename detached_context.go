package assetcache

import (
	"context"
	"time"
)

// detachedContext keeps values of parent context, but not its deadline and cancellation.
//
// A load is shared by all waiters of a key, so it must not be aborted when the
// context of the request that started it is done.
type detachedContext struct {
	ctx context.Context
}

func (dctx detachedContext) Deadline() (deadline time.Time, ok bool) {
	return time.Time{}, false
}

func (dctx detachedContext) Done() <-chan struct{} {
	return nil
}

func (dctx detachedContext) Err() error {
	return nil
}

func (dctx detachedContext) Value(key interface{}) interface{} {
	return dctx.ctx.Value(key)
}
