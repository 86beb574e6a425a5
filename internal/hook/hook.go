// Package hook manages the lifecycle of the global pointer event tap:
// installing it, keeping it enabled, retrying while permission is missing,
// and removing it again.
package hook

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phinze/overmouse/internal/event"
)

var (
	// ErrPermissionDenied is returned by a Tap when the OS refuses to
	// create it, usually because accessibility access is not granted.
	ErrPermissionDenied = errors.New("hook: event tap creation denied")

	// ErrUnsupported is returned on platforms without a tap backend.
	ErrUnsupported = errors.New("hook: global event taps are not supported on this platform")
)

// SyntheticMarker is written into the source user-data field of events
// overmouse posts itself. Taps pass such events through untouched.
const SyntheticMarker int64 = 0x6f766d73

// Handler is invoked synchronously for every matching event. It must not
// block.
type Handler func(ev *event.Event) event.Verdict

// Tap is a platform event tap. A Tap delivers button down/up/drag events
// for all buttons plus scroll-wheel events.
type Tap interface {
	// Install creates the tap and begins delivering events to h. When the
	// OS disables the tap, disabled is called from the tap's thread.
	Install(h Handler, disabled func()) error
	// Enabled reports whether the installed tap is currently enabled.
	Enabled() bool
	// Enable re-enables an installed tap.
	Enable()
	// Remove tears the tap down. It is safe to call when not installed.
	Remove()
}

const (
	defaultRetryInterval = 2 * time.Second
	defaultCheckInterval = time.Second
)

// Hook owns a Tap. Start and Stop are idempotent.
type Hook struct {
	tap           Tap
	log           *slog.Logger
	retryInterval time.Duration
	checkInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	installed atomic.Bool
	disabled  chan struct{}
}

// Option configures a Hook.
type Option func(*Hook)

// WithRetryInterval sets how often installation is retried after failure.
func WithRetryInterval(d time.Duration) Option {
	return func(h *Hook) { h.retryInterval = d }
}

// WithCheckInterval sets the control-loop tick that re-enables a disabled tap.
func WithCheckInterval(d time.Duration) Option {
	return func(h *Hook) { h.checkInterval = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hook) { h.log = l }
}

// New creates a Hook around tap.
func New(tap Tap, opts ...Option) *Hook {
	h := &Hook{
		tap:           tap,
		log:           slog.Default(),
		retryInterval: defaultRetryInterval,
		checkInterval: defaultCheckInterval,
		disabled:      make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Start installs the tap and begins delivering events to handler. If
// installation fails it keeps retrying in the background until Stop.
func (h *Hook) Start(handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true

	select {
	case <-h.disabled:
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	err := h.install(handler)
	h.wg.Add(1)
	go h.loop(ctx, handler, err)
}

// Stop removes the tap and cancels any pending retry.
func (h *Hook) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.cancel()
	h.mu.Unlock()

	h.wg.Wait()
	if h.installed.Swap(false) {
		h.tap.Remove()
		h.log.Info("event tap removed")
	}
}

// Installed reports whether the tap is currently installed.
func (h *Hook) Installed() bool {
	return h.installed.Load()
}

// Running reports whether Start has been called without a matching Stop.
func (h *Hook) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

func (h *Hook) install(handler Handler) error {
	if err := h.tap.Install(handler, h.notifyDisabled); err != nil {
		return err
	}
	h.installed.Store(true)
	h.log.Info("event tap installed")
	return nil
}

func (h *Hook) notifyDisabled() {
	select {
	case h.disabled <- struct{}{}:
	default:
	}
}

func (h *Hook) loop(ctx context.Context, handler Handler, err error) {
	defer h.wg.Done()

	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			h.log.Error("event tap unavailable", "err", err)
			return
		}
		if !h.retry(ctx, handler, err) {
			return
		}
	}

	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.disabled:
			h.log.Warn("event tap disabled by the system, re-enabling")
			h.tap.Enable()
		case <-ticker.C:
			if !h.tap.Enabled() {
				h.log.Warn("event tap found disabled, re-enabling")
				h.tap.Enable()
			}
		}
	}
}

// retry keeps trying to install until it succeeds or ctx ends. It reports
// whether the tap ended up installed.
func (h *Hook) retry(ctx context.Context, handler Handler, err error) bool {
	h.log.Warn("event tap unavailable, will retry", "err", err, "interval", h.retryInterval)

	ticker := time.NewTicker(h.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if err := h.install(handler); err != nil {
				h.log.Debug("event tap retry failed", "err", err)
				continue
			}
			return true
		}
	}
}
