package assetcache

import (
	"context"
	"sync"

	"github.com/bool64/ctxd"
	"github.com/puzpuzpuz/xsync"
)

var (
	_ Scheduler = &Dispatcher{}
	_ Scheduler = &Loop{}
)

// DispatcherConfig controls Dispatcher.
type DispatcherConfig struct {
	// QueueSize is the number of tasks that can be queued without spawning a goroutine, default 64.
	QueueSize int

	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger
}

// Dispatcher runs scheduled tasks one by one in a background goroutine.
//
// Tasks run in order of scheduling while the queue has room, see Schedule for the overflow case.
//
// Please use NewDispatcher to create instance.
type Dispatcher struct {
	mu       sync.RWMutex
	closed   bool
	queue    *xsync.MPMCQueue
	pending  *xsync.Counter
	overflow sync.WaitGroup // Goroutines enqueueing tasks that did not fit the queue.
	done     chan struct{}
	log      ctxd.Logger
}

// NewDispatcher creates and starts a Dispatcher.
func NewDispatcher(options ...func(cfg *DispatcherConfig)) *Dispatcher {
	cfg := DispatcherConfig{}

	for _, option := range options {
		option(&cfg)
	}

	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultCapacity
	}

	if cfg.Logger == nil {
		cfg.Logger = ctxd.NoOpLogger{}
	}

	d := &Dispatcher{
		queue:   xsync.NewMPMCQueue(cfg.QueueSize),
		pending: xsync.NewCounter(),
		done:    make(chan struct{}),
		log:     cfg.Logger,
	}

	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for {
		// Nil item stops the loop.
		task, ok := d.queue.Dequeue().(func())
		if !ok {
			return
		}

		task()
		d.pending.Dec()
	}
}

// Schedule queues task, it is discarded if Dispatcher is closed.
//
// When queue is full, task is queued from a separate goroutine, so that a running task
// can schedule more tasks without blocking the dispatcher. Order is not kept for such tasks.
func (d *Dispatcher) Schedule(task func()) {
	if task == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn(context.Background(), "discarding task scheduled after dispatcher close")

		return
	}

	d.pending.Inc()

	if !d.queue.TryEnqueue(task) {
		d.overflow.Add(1)

		go func() {
			defer d.overflow.Done()

			d.queue.Enqueue(task)
		}()
	}
}

// Pending returns number of scheduled tasks that did not finish yet.
func (d *Dispatcher) Pending() int {
	return int(d.pending.Value())
}

// Close runs tasks that are already scheduled, overflowed ones included, and stops Dispatcher.
//
// Close must not be called from a scheduled task.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done

		return
	}

	d.closed = true
	d.mu.Unlock()

	// Stop item must be queued after all overflowed tasks.
	d.overflow.Wait()
	d.queue.Enqueue(nil)
	<-d.done
}

// Loop queues tasks until host event loop runs them with RunPending.
//
// It suits applications that own a frame or tick loop and need callbacks to run on that loop.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
}

// NewLoop creates an empty Loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Schedule queues task.
func (l *Loop) Schedule(task func()) {
	if task == nil {
		return
	}

	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
}

// RunPending runs tasks queued before the call and returns their count.
//
// Tasks scheduled by running tasks are left for the next call.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()

	for _, task := range tasks {
		task()
	}

	return len(tasks)
}

// Len returns number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.tasks)
}
