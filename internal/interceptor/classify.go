package interceptor

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/settings"
)

const (
	// DoubleClickInterval is the longest gap between two downs of the same
	// button that still counts as a repeated click.
	DoubleClickInterval = 300 * time.Millisecond
	// HoldDelay promotes a press to a hold.
	HoldDelay = 400 * time.Millisecond
	// DragThreshold is the travel on either axis that turns a press into a drag.
	DragThreshold = 5
)

type holdTimer struct {
	stop  func() bool
	fired atomic.Bool
}

// channelState is the single logical press channel. Click history survives
// across presses; everything else is per press.
type channelState struct {
	lastDown   time.Time
	lastButton event.Button
	hasLast    bool
	clicks     int

	pressed       bool
	button        event.Button
	dragging      bool
	dragX, dragY  float64
	swallowedDown bool
	gesturing     bool
	hold          *holdTimer
}

func (c *channelState) countClick(b event.Button, at time.Time) {
	if c.hasLast && c.lastButton == b && at.Sub(c.lastDown) <= DoubleClickInterval {
		c.clicks++
	} else {
		c.clicks = 1
	}
	c.lastDown = at
	c.lastButton = b
	c.hasLast = true
}

func (c *channelState) holding() bool {
	return c.hold != nil && c.hold.fired.Load()
}

func (c *channelState) cancelHold() {
	if c.hold != nil {
		c.hold.stop()
		c.hold = nil
	}
}

func (c *channelState) endPress() {
	c.cancelHold()
	c.pressed = false
	c.dragging = false
	c.dragX, c.dragY = 0, 0
	c.swallowedDown = false
	c.gesturing = false
}

// classify applies the fixed priority drag > hold > double > single.
func classify(dragging, holding bool, clicks int) settings.ClickType {
	switch {
	case dragging:
		return settings.Drag
	case holding:
		return settings.Hold
	case clicks >= 2:
		return settings.Double
	}
	return settings.Single
}

// resolve finds a non-trivial action for (b, c), falling back from a
// double click to a single click.
func resolve(snap *settings.Snapshot, b event.Button, c settings.ClickType) (action.Action, bool) {
	if a, ok := snap.Lookup(b, c); ok && !a.Trivial() {
		return a, true
	}
	if c == settings.Double {
		if a, ok := snap.Lookup(b, settings.Single); ok && !a.Trivial() {
			return a, true
		}
	}
	return action.Action{}, false
}

func (i *Interceptor) armHold() *holdTimer {
	h := &holdTimer{}
	h.stop = i.after(HoldDelay, func() { h.fired.Store(true) })
	return h
}

// bypass reports whether b stays off the press channel. Unmapped left and
// right clicks are ordinary pointer use and must not disturb an open press
// or gesture on another button.
func bypass(snap *settings.Snapshot, b event.Button) bool {
	if !b.Known() {
		return true
	}
	if b != event.Left && b != event.Right {
		return false
	}
	g := snap.Gestures
	if g.Enabled && g.Trigger == b {
		return false
	}
	return !snap.HasAnyMapping(b)
}

func (i *Interceptor) down(ev *event.Event, snap *settings.Snapshot) event.Verdict {
	if bypass(snap, ev.Button) {
		return event.Pass
	}
	ch := &i.ch

	// A new press supersedes any session left open by a missed Up.
	ch.endPress()
	if i.recognizer.Active() {
		i.recognizer.Reset()
	}

	ch.countClick(ev.Button, i.eventTime(ev))
	ch.pressed = true
	ch.button = ev.Button

	g := snap.Gestures
	if g.Enabled && ev.Button == g.Trigger {
		i.recognizer.SetThreshold(g.Threshold)
		i.recognizer.Begin()
		ch.gesturing = true
		ch.swallowedDown = true
		i.log.Debug("gesture started", "button", ev.Button.String())
		return event.Swallow
	}

	ch.hold = i.armHold()
	if snap.HasAnyMapping(ev.Button) {
		ch.swallowedDown = true
		return event.Swallow
	}
	return event.Pass
}

func (i *Interceptor) dragged(ev *event.Event) event.Verdict {
	ch := &i.ch
	if !ev.Button.Known() || !ch.pressed || ch.button != ev.Button {
		return event.Pass
	}

	ch.dragX += ev.DX
	ch.dragY += ev.DY
	if math.Abs(ch.dragX) > DragThreshold || math.Abs(ch.dragY) > DragThreshold {
		ch.dragging = true
	}

	if ch.gesturing && i.recognizer.Active() {
		i.recognizer.Track(ev.DX, ev.DY)
		return event.Swallow
	}
	return event.Pass
}

func (i *Interceptor) up(ev *event.Event, snap *settings.Snapshot) event.Verdict {
	if bypass(snap, ev.Button) {
		return event.Pass
	}
	ch := &i.ch

	if !ch.pressed || ch.button != ev.Button {
		// The Down was never seen, or another press replaced it.
		if snap.HasAnyMapping(ev.Button) {
			return event.Swallow
		}
		return event.Pass
	}

	holding := ch.holding()
	ch.cancelHold()
	defer ch.endPress()

	if ch.gesturing {
		if dir, ok := i.recognizer.End(); ok {
			i.log.Debug("gesture resolved", "direction", dir.String())
			i.fire(snap.Gestures.ForDirection(dir))
			return event.Swallow
		}
	}

	click := classify(ch.dragging, holding, ch.clicks)
	if a, ok := resolve(snap, ev.Button, click); ok {
		i.log.Debug("click resolved", "button", ev.Button.String(), "click", click.String())
		i.fire(a)
		return event.Swallow
	}

	if ch.swallowedDown {
		return event.Swallow
	}
	return event.Pass
}

func (i *Interceptor) scroll(ev *event.Event, snap *settings.Snapshot) event.Verdict {
	if snap.Gestures.Enabled && i.recognizer.Active() {
		switch {
		case ev.Scroll.DY < 0:
			i.fire(snap.Gestures.ScrollUp)
		case ev.Scroll.DY > 0:
			i.fire(snap.Gestures.ScrollDown)
		}
		return event.Swallow
	}

	i.transformer.Apply(ev, snap.Scroll)
	return event.Modify
}
