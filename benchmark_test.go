package assetcache_test

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	pca "github.com/patrickmn/go-cache"
	"github.com/veartutop/assetcache"
)

func syncLoad(ctx context.Context, key string, params interface{}, done func(asset interface{})) {
	done(123)
}

func Benchmark_AssetCache(b *testing.B) {
	c, err := assetcache.NewAssetCache(assetcache.Config{
		Capacity:  10000,
		OnLoad:    syncLoad,
		Scheduler: assetcache.NewLoop(),
	})
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		k := "oneone" + strconv.Itoa(i%10000)
		// nolint
		if i < 10000 {
			c.Request(ctx, k, nil, nil)
		}
		// nolint
		_ = c.Get(ctx, k)
	}
}

func Benchmark_AssetCache_evict(b *testing.B) {
	c, err := assetcache.NewAssetCache(assetcache.Config{
		Capacity:  1000,
		OnLoad:    syncLoad,
		OnDestroy: func(context.Context, string, interface{}) {},
		Scheduler: assetcache.NewLoop(),
	})
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c.Request(ctx, "oneone"+strconv.Itoa(i), nil, nil)
	}
}

func Benchmark_concurrentGet(b *testing.B) {
	cardinality := 10000
	cfg := assetcache.Config{
		Capacity:  2 * cardinality, // Room for uneven shards.
		OnLoad:    syncLoad,
		Scheduler: assetcache.NewLoop(),
	}

	single, err := assetcache.NewAssetCache(cfg)
	if err != nil {
		b.Fatal(err)
	}

	sharded, err := assetcache.NewShardedAssetCache(cfg, 16)
	if err != nil {
		b.Fatal(err)
	}

	for name, c := range map[string]interface {
		assetcache.Requester
		assetcache.Reader
	}{"single": single, "sharded": sharded} {
		c := c

		b.Run(name, func(b *testing.B) {
			ctx := context.Background()

			for i := 0; i < cardinality; i++ {
				c.Request(ctx, "oneone"+strconv.Itoa(i), nil, nil)
			}

			numRoutines := runtime.GOMAXPROCS(0)
			wg := sync.WaitGroup{}
			wg.Add(numRoutines)

			b.ReportAllocs()
			b.ResetTimer()

			for r := 0; r < numRoutines; r++ {
				cnt := b.N / numRoutines
				if r == 0 {
					cnt = b.N - cnt*(numRoutines-1)
				}

				go func() {
					defer wg.Done()

					for i := 0; i < cnt; i++ {
						if c.Get(ctx, "oneone"+strconv.Itoa((i^12345)%cardinality)) == nil {
							b.Fail()
						}
					}
				}()
			}

			wg.Wait()
		})
	}
}

// Benchmark_Patrickmn is a baseline of a map based cache without recency tracking.
func Benchmark_Patrickmn(b *testing.B) {
	c := pca.New(5*time.Minute, 10*time.Minute)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		k := "oneone" + strconv.Itoa(i%10000)

		if i < 10000 {
			c.Set(k, 123, time.Minute)
		}

		_, _ = c.Get(k)
	}
}
