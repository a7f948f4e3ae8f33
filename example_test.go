package assetcache_test

import (
	"context"
	"fmt"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/veartutop/assetcache"
)

func ExampleNewAssetCache() {
	// Host event loop runs cache callbacks.
	loop := assetcache.NewLoop()

	// Create cache instance.
	c, err := assetcache.NewAssetCache(assetcache.Config{
		Name:     "textures",
		Capacity: 2,
		Logger:   &ctxd.LoggerMock{},
		Stats:    &stats.TrackerMock{},

		// Loader completes on the event loop, never within Request.
		OnLoad: func(ctx context.Context, key string, params interface{}, done func(asset interface{})) {
			loop.Schedule(func() {
				done(fmt.Sprintf("%s@%v", key, params))
			})
		},

		// Release resources of assets that left cache.
		OnDestroy: func(ctx context.Context, key string, asset interface{}) {
			fmt.Println("destroyed", asset)
		},

		Scheduler: loop,
	})
	if err != nil {
		panic(err)
	}

	// Use context if available.
	ctx := context.TODO()

	show := func(key string, asset interface{}, params interface{}) {
		fmt.Println("received", asset)
	}

	c.Request(ctx, "grass", "512px", show)
	c.Request(ctx, "grass", "1024px", show) // Joins the load in flight.
	c.Request(ctx, "stone", "512px", show)

	loop.RunPending()

	c.Request(ctx, "water", "256px", show) // Evicts grass.
	loop.RunPending()

	// Output:
	// received grass@512px
	// received grass@512px
	// received stone@512px
	// destroyed grass@512px
	// received water@256px
}
