// Package coordinator assembles the interception pipeline and manages its
// lifecycle: configuration reloads, the enable toggle, and restarts after
// system wake or a pointer device being attached.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/config"
	"github.com/phinze/overmouse/internal/hook"
	"github.com/phinze/overmouse/internal/interceptor"
	"github.com/phinze/overmouse/internal/permissions"
	"github.com/phinze/overmouse/internal/scroll"
	"github.com/phinze/overmouse/internal/settings"
)

// Executor performs actions and posts momentum scroll steps.
type Executor interface {
	action.Executor
	scroll.Poster
}

// Deps are the platform pieces the pipeline runs on.
type Deps struct {
	Tap         hook.Tap
	Executor    Executor
	Permissions permissions.Provider

	// Wake and Devices each restart the pipeline when they fire. Either may
	// be nil.
	Wake    <-chan struct{}
	Devices <-chan struct{}

	HookOptions     []hook.Option
	MomentumOptions []scroll.MomentumOption

	// PermissionPoll overrides permissions.PollInterval.
	PermissionPoll time.Duration
}

// Coordinator owns the pipeline.
type Coordinator struct {
	path  string
	store *settings.Store
	deps  Deps
	log   *slog.Logger

	hook        *hook.Hook
	dispatcher  *action.Dispatcher
	interceptor *interceptor.Interceptor

	mu        sync.Mutex
	listeners []func()
	quit      chan struct{}
	quitOnce  sync.Once
}

// New creates a Coordinator for cfg. Nothing runs until Start.
func New(cfg *config.Config, deps Deps, log *slog.Logger) *Coordinator {
	c := &Coordinator{
		path:  cfg.Path,
		store: settings.NewStore(cfg.Settings),
		deps:  deps,
		log:   log,
		quit:  make(chan struct{}),
	}

	c.hook = hook.New(deps.Tap, append([]hook.Option{hook.WithLogger(log)}, deps.HookOptions...)...)
	c.dispatcher = action.NewDispatcher(deps.Executor, log)
	momentum := scroll.NewMomentum(deps.Executor, append([]scroll.MomentumOption{scroll.WithLogger(log)}, deps.MomentumOptions...)...)
	c.interceptor = interceptor.New(c.hook, c.store, c.dispatcher,
		interceptor.WithMomentum(momentum),
		interceptor.WithLogger(log),
	)

	for _, w := range cfg.Warnings {
		log.Warn("configuration adjusted", "detail", w)
	}
	return c
}

// Store returns the settings store.
func (c *Coordinator) Store() *settings.Store { return c.store }

// Interceptor returns the interceptor.
func (c *Coordinator) Interceptor() *interceptor.Interceptor { return c.interceptor }

// OnChange registers fn to run after the enabled state or configuration
// changes.
func (c *Coordinator) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Coordinator) changed() {
	c.mu.Lock()
	listeners := append([]func(){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Start checks permission, starts the dispatcher and installs the hook.
// Missing permission is not fatal: the hook keeps retrying, and the pipeline
// is restarted as soon as the grant is observed.
func (c *Coordinator) Start(ctx context.Context) {
	if p := c.deps.Permissions; p != nil && !p.Granted() {
		c.log.Warn("accessibility permission not granted; add overmouse under System Settings > Privacy & Security > Accessibility")
		if p.Request() {
			c.log.Info("accessibility permission granted")
		} else {
			go c.awaitPermission(ctx, p)
		}
	}

	c.dispatcher.Start(ctx)
	c.interceptor.Start()
}

func (c *Coordinator) awaitPermission(ctx context.Context, p permissions.Provider) {
	interval := c.deps.PermissionPoll
	if interval <= 0 {
		interval = permissions.PollInterval
	}
	if err := permissions.WaitGranted(ctx, p, interval); err != nil {
		return
	}
	c.log.Info("accessibility permission granted, restarting")
	c.interceptor.Restart()
}

// Run processes restart triggers until ctx ends or Quit is called, then
// stops the pipeline.
func (c *Coordinator) Run(ctx context.Context) error {
	defer c.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.quit:
			return nil
		case <-c.deps.Wake:
			c.log.Info("system wake detected, restarting")
			c.interceptor.Restart()
		case <-c.deps.Devices:
			c.log.Info("pointer device attached, restarting")
			c.interceptor.Restart()
		}
	}
}

// Stop removes the hook and stops the dispatcher.
func (c *Coordinator) Stop() {
	c.interceptor.Stop()
	c.dispatcher.Stop()
}

// Reload re-reads the configuration file, publishes it and restarts the
// pipeline. On error the current configuration stays in effect.
func (c *Coordinator) Reload() {
	if err := c.reload(); err != nil {
		c.log.Error("reloading configuration", "path", c.path, "err", err)
	}
}

func (c *Coordinator) reload() error {
	cfg, err := config.LoadFile(c.path)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings {
		c.log.Warn("configuration adjusted", "detail", w)
	}

	c.store.Publish(cfg.Settings)
	c.interceptor.Restart()
	c.log.Info("configuration reloaded", "path", c.path, "enabled", cfg.Settings.Enabled)
	c.changed()
	return nil
}

// Enabled reports whether interception is switched on.
func (c *Coordinator) Enabled() bool {
	return c.store.Current().Enabled
}

// SetEnabled switches interception on or off.
func (c *Coordinator) SetEnabled(on bool) {
	c.store.Update(func(s *settings.Snapshot) { s.Enabled = on })
	c.interceptor.Sync()
	c.changed()
}

// Quit makes Run return.
func (c *Coordinator) Quit() {
	c.quitOnce.Do(func() { close(c.quit) })
}
