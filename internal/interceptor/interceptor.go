// Package interceptor classifies raw pointer events into clicks, holds,
// drags and gestures, decides what reaches the OS, and hands resolved
// actions to the dispatcher.
package interceptor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/gesture"
	"github.com/phinze/overmouse/internal/hook"
	"github.com/phinze/overmouse/internal/scroll"
	"github.com/phinze/overmouse/internal/settings"
)

// Hook is the capture hook the interceptor drives.
type Hook interface {
	Start(h hook.Handler)
	Stop()
}

// Dispatcher receives resolved actions. Dispatch must not block.
type Dispatcher interface {
	Dispatch(a action.Action)
}

// Animator is the momentum engine's lifecycle.
type Animator interface {
	Start(ctx context.Context)
	Stop()
}

// Scheduler runs f once after d and returns a func that cancels it,
// reporting whether f was prevented from running.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Interceptor wires the hook, configuration and classification together.
type Interceptor struct {
	hook     Hook
	store    *settings.Store
	dispatch Dispatcher
	momentum Animator
	after    Scheduler
	now      func() time.Time
	log      *slog.Logger

	recognizer  *gesture.Recognizer
	transformer *scroll.Transformer

	// ch is touched only from the hook callback, or while the hook is stopped.
	ch channelState

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithMomentum feeds high-smoothness scrolling into m and ties its
// lifecycle to the interceptor's.
func WithMomentum(m *scroll.Momentum) Option {
	return func(i *Interceptor) {
		i.momentum = m
		i.transformer = scroll.NewTransformer(m)
	}
}

// WithScheduler replaces time.AfterFunc for the hold-promotion timer.
func WithScheduler(s Scheduler) Option {
	return func(i *Interceptor) { i.after = s }
}

// WithClock replaces time.Now for events that carry no timestamp.
func WithClock(now func() time.Time) Option {
	return func(i *Interceptor) { i.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interceptor) { i.log = l }
}

// New creates an Interceptor. Nothing is installed until Start.
func New(h Hook, store *settings.Store, d Dispatcher, opts ...Option) *Interceptor {
	i := &Interceptor{
		hook:        h,
		store:       store,
		dispatch:    d,
		after:       afterFunc,
		now:         time.Now,
		log:         slog.Default(),
		recognizer:  gesture.New(settings.DefaultThreshold),
		transformer: scroll.NewTransformer(nil),
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Start installs the hook if the current configuration is enabled.
// Calling Start while running is a no-op.
func (i *Interceptor) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running {
		return
	}
	if !i.store.Current().Enabled {
		i.log.Info("interception disabled, not starting")
		return
	}
	i.running = true

	i.resetState()

	var ctx context.Context
	ctx, i.cancel = context.WithCancel(context.Background())
	if i.momentum != nil {
		i.momentum.Start(ctx)
	}
	i.hook.Start(i.Handle)
	i.log.Info("interceptor started")
}

// Stop removes the hook and clears all per-channel and gesture state.
func (i *Interceptor) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.running {
		return
	}
	i.running = false

	i.hook.Stop()
	if i.momentum != nil {
		i.momentum.Stop()
	}
	i.cancel()
	i.resetState()
	i.log.Info("interceptor stopped")
}

// Restart tears everything down and starts again from a clean state.
func (i *Interceptor) Restart() {
	i.Stop()
	i.Start()
}

// Sync starts or stops the interceptor to match the Enabled flag of the
// current configuration.
func (i *Interceptor) Sync() {
	if i.store.Current().Enabled {
		i.Start()
	} else {
		i.Stop()
	}
}

// Running reports whether the hook is installed or being retried.
func (i *Interceptor) Running() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running
}

func (i *Interceptor) resetState() {
	i.ch.cancelHold()
	i.ch = channelState{}
	i.recognizer.Reset()
}

// Handle processes one event from the hook. It never panics; any failure
// lets the event through unchanged.
func (i *Interceptor) Handle(ev *event.Event) (v event.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			i.log.Error("event handler panicked", "kind", ev.Kind.String(), "button", int(ev.Button), "panic", r)
			v = event.Pass
		}
	}()

	snap := i.store.Current()
	switch ev.Kind {
	case event.ButtonDown:
		return i.down(ev, snap)
	case event.ButtonUp:
		return i.up(ev, snap)
	case event.Dragged:
		return i.dragged(ev)
	case event.Scroll:
		return i.scroll(ev, snap)
	}
	return event.Pass
}

func (i *Interceptor) fire(a action.Action) {
	if a.Trivial() {
		return
	}
	i.log.Debug("dispatching action", "action", a.String())
	i.dispatch.Dispatch(a)
}

func (i *Interceptor) eventTime(ev *event.Event) time.Time {
	if ev.Time.IsZero() {
		return i.now()
	}
	return ev.Time
}
