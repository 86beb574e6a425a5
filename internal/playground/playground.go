// Package playground drives the real interception pipeline from synthetic
// input so mappings, gestures and scrolling can be tried out in a window
// without installing a global event tap.
package playground

import (
	"sync"
	"time"

	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/hook"
)

// Tap is an in-process hook.Tap. Events are fed in with Deliver instead of
// coming from the OS.
type Tap struct {
	mu      sync.Mutex
	handler hook.Handler
	enabled bool
}

// NewTap returns an uninstalled Tap.
func NewTap() *Tap { return &Tap{} }

// Install attaches h. The disabled callback is never called.
func (t *Tap) Install(h hook.Handler, _ func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = h
	t.enabled = true
	return nil
}

// Enabled reports whether events are being delivered.
func (t *Tap) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Enable re-enables delivery if a handler is attached.
func (t *Tap) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = t.handler != nil
}

// Remove detaches the handler.
func (t *Tap) Remove() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = nil
	t.enabled = false
}

// Installed reports whether a handler is attached.
func (t *Tap) Installed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handler != nil
}

// Deliver runs ev through the installed handler, the way the OS tap would,
// and returns the verdict along with the event as the OS would see it. With
// no handler installed every event passes.
func (t *Tap) Deliver(ev event.Event) (event.Verdict, event.Event) {
	t.mu.Lock()
	h, on := t.handler, t.enabled
	t.mu.Unlock()
	if h == nil || !on {
		return event.Pass, ev
	}
	v := h(&ev)
	return v, ev
}

// Frame is the pointer state sampled once per window update.
type Frame struct {
	Buttons [5]bool
	X, Y    float64
	WheelX  float64
	WheelY  float64
	Mods    event.Modifiers
	Time    time.Time
}

// Synth turns successive frames into raw events.
type Synth struct {
	prev    Frame
	started bool
}

// Next returns the events implied by the change from the previous frame to
// f: releases first, then presses, then drags for held buttons, then scroll.
func (s *Synth) Next(f Frame) []event.Event {
	if !s.started {
		s.prev = Frame{X: f.X, Y: f.Y}
		s.started = true
	}
	prev := s.prev
	s.prev = f

	var out []event.Event
	mk := func(k event.Kind, b event.Button) event.Event {
		return event.Event{Kind: k, Button: b, Modifiers: f.Mods, Time: f.Time}
	}

	for i, down := range f.Buttons {
		if prev.Buttons[i] && !down {
			out = append(out, mk(event.ButtonUp, event.Button(i)))
		}
	}
	for i, down := range f.Buttons {
		if down && !prev.Buttons[i] {
			out = append(out, mk(event.ButtonDown, event.Button(i)))
		}
	}

	dx, dy := f.X-prev.X, f.Y-prev.Y
	if dx != 0 || dy != 0 {
		for i, down := range f.Buttons {
			if down && prev.Buttons[i] {
				ev := mk(event.Dragged, event.Button(i))
				ev.DX, ev.DY = dx, dy
				out = append(out, ev)
			}
		}
	}

	if f.WheelX != 0 || f.WheelY != 0 {
		ev := mk(event.Scroll, 0)
		ev.Scroll = event.ScrollDelta{Units: event.Lines, DX: f.WheelX, DY: f.WheelY}
		out = append(out, ev)
	}
	return out
}
