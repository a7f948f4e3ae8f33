package assetcache_test

import (
	"sync"
	"testing"

	"github.com/bool64/ctxd"
	"github.com/puzpuzpuz/xsync"
	"github.com/stretchr/testify/assert"
	"github.com/veartutop/assetcache"
)

func TestDispatcher_order(t *testing.T) {
	d := assetcache.NewDispatcher(func(cfg *assetcache.DispatcherConfig) {
		cfg.QueueSize = 1000
	})

	var (
		mu  sync.Mutex
		got []int
	)

	for i := 0; i < 1000; i++ {
		i := i

		d.Schedule(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}

	d.Close()

	assert.Len(t, got, 1000)

	for i, v := range got {
		assert.Equal(t, i, v)
	}

	assert.Equal(t, 0, d.Pending())
}

func TestDispatcher_notInCallerStack(t *testing.T) {
	d := assetcache.NewDispatcher()
	defer d.Close()

	var mu sync.Mutex

	done := make(chan struct{})

	mu.Lock()
	d.Schedule(func() {
		// Would deadlock if task ran before Schedule returned.
		mu.Lock()
		defer mu.Unlock()

		close(done)
	})
	mu.Unlock()

	<-done
}

func TestDispatcher_overflow(t *testing.T) {
	d := assetcache.NewDispatcher(func(cfg *assetcache.DispatcherConfig) {
		cfg.QueueSize = 1
	})
	defer d.Close()

	wg := sync.WaitGroup{}
	wg.Add(100)

	// Tasks scheduling tasks must not block the dispatcher goroutine on a full queue.
	d.Schedule(func() {
		for i := 0; i < 100; i++ {
			d.Schedule(wg.Done)
		}
	})

	wg.Wait()
}

func TestDispatcher_Close_overflow(t *testing.T) {
	d := assetcache.NewDispatcher(func(cfg *assetcache.DispatcherConfig) {
		cfg.QueueSize = 1
	})

	gate := make(chan struct{})
	ran := xsync.NewCounter()

	d.Schedule(func() { <-gate })

	// Queue is full while the first task blocks, so most of these go through overflow.
	for i := 0; i < 100; i++ {
		d.Schedule(ran.Inc)
	}

	close(gate)
	d.Close()

	assert.Equal(t, int64(100), ran.Value())
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcher_Close(t *testing.T) {
	d := assetcache.NewDispatcher(func(cfg *assetcache.DispatcherConfig) {
		cfg.Logger = &ctxd.LoggerMock{}
	})

	ran := 0

	d.Schedule(func() { ran++ })
	d.Close()
	d.Close()

	d.Schedule(func() { ran++ })

	assert.Equal(t, 1, ran)
}

func TestLoop_RunPending(t *testing.T) {
	l := assetcache.NewLoop()

	var got []string

	l.Schedule(func() {
		got = append(got, "a")

		l.Schedule(func() {
			got = append(got, "c")
		})
	})
	l.Schedule(func() {
		got = append(got, "b")
	})
	l.Schedule(nil)

	assert.Empty(t, got)
	assert.Equal(t, 2, l.Len())

	assert.Equal(t, 2, l.RunPending())
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, l.Len())

	assert.Equal(t, 1, l.RunPending())
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, l.RunPending())
}
