package action

import (
	"context"
	"log/slog"
	"sync"
)

// Executor carries out an action. Implementations may block; the
// Dispatcher keeps them off the hook path.
type Executor interface {
	Execute(a Action)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(a Action)

// Execute calls f(a).
func (f ExecutorFunc) Execute(a Action) { f(a) }

const defaultQueueSize = 32

// Dispatcher queues actions for a single worker goroutine. Dispatch never
// blocks: when the queue is full the action is dropped and logged.
type Dispatcher struct {
	exec   Executor
	log    *slog.Logger
	queue  chan Action
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
}

// NewDispatcher creates a dispatcher for exec. Call Start before Dispatch.
func NewDispatcher(exec Executor, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		exec:  exec,
		log:   log,
		queue: make(chan Action, defaultQueueSize),
	}
}

// Start launches the worker. It is a no-op if already running.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true

	ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Add(1)
	go d.run(ctx)
}

// Stop halts the worker and waits for it. Queued actions not yet picked up
// are discarded.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	d.mu.Unlock()

	d.wg.Wait()
}

// Dispatch enqueues a for execution and returns immediately.
func (d *Dispatcher) Dispatch(a Action) {
	if a.Trivial() {
		return
	}
	select {
	case d.queue <- a:
	default:
		d.log.Warn("action queue full, dropping", "action", a.String())
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-d.queue:
			d.execute(a)
		}
	}
}

func (d *Dispatcher) execute(a Action) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("action panicked", "action", a.String(), "panic", r)
		}
	}()
	d.log.Debug("executing action", "action", a.String())
	d.exec.Execute(a)
}
