package scroll

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/phinze/overmouse/internal/event"
)

const (
	// DecayRate is applied to the velocity on every tick.
	DecayRate = 0.92
	// MinVelocity ends the animation once both axes fall below it.
	MinVelocity = 0.1
	// TickInterval approximates one display refresh.
	TickInterval = time.Second / 60
	// StaleGap ends the animation when ticks arrive this far apart.
	StaleGap = 100 * time.Millisecond
)

// Poster emits a synthetic scroll event. Posted events must carry the
// marker that makes the hook pass them through untouched.
type Poster interface {
	PostScroll(d event.ScrollDelta)
}

// TickSource starts a periodic tick and returns its channel and a stop func.
type TickSource func(d time.Duration) (<-chan time.Time, func())

func realTicks(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Velocity is the per-axis momentum in adjusted line units.
type Velocity struct {
	X, Y float64
}

// Step decays v by one tick and reports whether the animation continues.
func Step(v Velocity) (Velocity, bool) {
	v.X *= DecayRate
	v.Y *= DecayRate
	if math.Abs(v.X) < MinVelocity && math.Abs(v.Y) < MinVelocity {
		return Velocity{}, false
	}
	return v, true
}

// Momentum owns the scroll velocity. Only its run goroutine reads or writes
// the velocity; other goroutines contribute through Impulse.
type Momentum struct {
	post  Poster
	ticks TickSource
	log   *slog.Logger

	impulses chan Velocity

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// MomentumOption configures a Momentum.
type MomentumOption func(*Momentum)

// WithTickSource replaces the wall-clock ticker.
func WithTickSource(ts TickSource) MomentumOption {
	return func(m *Momentum) { m.ticks = ts }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) MomentumOption {
	return func(m *Momentum) { m.log = l }
}

// NewMomentum creates a stopped momentum engine posting through p.
func NewMomentum(p Poster, opts ...MomentumOption) *Momentum {
	m := &Momentum{
		post:     p,
		ticks:    realTicks,
		log:      slog.Default(),
		impulses: make(chan Velocity, 64),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Start launches the owner goroutine. It is a no-op if already running.
func (m *Momentum) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true

	// Impulses queued while stopped belong to a previous session.
	for len(m.impulses) > 0 {
		<-m.impulses
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go m.run(ctx)
}

// Stop ends any animation and waits for the owner goroutine. Velocity is
// discarded.
func (m *Momentum) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	m.mu.Unlock()

	m.wg.Wait()
}

// Impulse adds to the velocity. It never blocks; if the owner is
// backlogged the contribution is dropped.
func (m *Momentum) Impulse(dx, dy float64) {
	select {
	case m.impulses <- Velocity{X: dx, Y: dy}:
	default:
	}
}

func (m *Momentum) run(ctx context.Context) {
	defer m.wg.Done()

	var (
		v        Velocity
		tickC    <-chan time.Time
		stopTick func()
		last     time.Time
	)
	halt := func() {
		if stopTick != nil {
			stopTick()
		}
		tickC, stopTick = nil, nil
		v = Velocity{}
	}
	defer halt()

	for {
		select {
		case <-ctx.Done():
			return

		case in := <-m.impulses:
			v.X += in.X
			v.Y += in.Y
			if tickC == nil {
				tickC, stopTick = m.ticks(TickInterval)
				last = time.Time{}
			}

		case now := <-tickC:
			if !last.IsZero() {
				gap := now.Sub(last)
				if gap > StaleGap {
					m.log.Debug("momentum tick stale, stopping", "gap", gap)
					halt()
					continue
				}
				if gap <= 0 {
					continue
				}
			}
			last = now

			var more bool
			v, more = Step(v)
			if !more {
				halt()
				continue
			}
			m.post.PostScroll(event.ScrollDelta{
				Units: event.Pixels,
				DX:    v.X * PixelFactor,
				DY:    v.Y * PixelFactor,
			}.Clamped())
		}
	}
}
