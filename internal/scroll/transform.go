// Package scroll rewrites wheel deltas according to the user's scroll
// settings and simulates momentum for the high smoothness mode.
package scroll

import (
	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/settings"
)

const (
	// PrecisionMultiplier scales deltas while the precision modifier is held.
	PrecisionMultiplier = 0.3
	// PixelFactor converts adjusted line deltas into pixel deltas.
	PixelFactor = 3
	// MaxStepLines bounds each axis in the off mode.
	MaxStepLines = 10
)

// Impulser receives momentum contributions. Implementations must not block.
type Impulser interface {
	Impulse(dx, dy float64)
}

// Transformer applies scroll settings to a single event. It keeps no state
// of its own; momentum is delegated to the Impulser.
type Transformer struct {
	momentum Impulser
}

// NewTransformer returns a Transformer that feeds high-mode deltas into m.
// m may be nil, in which case high mode behaves like regular.
func NewTransformer(m Impulser) *Transformer {
	return &Transformer{momentum: m}
}

// Adjust applies invert, precision and speed to a raw delta pair.
func Adjust(dx, dy float64, mods event.Modifiers, s settings.ScrollSettings) (float64, float64) {
	mult := s.Speed
	if s.Invert {
		mult = -mult
	}
	if s.Precision && mods.Has(event.Shift) {
		mult *= PrecisionMultiplier
	}
	return dx * mult, dy * mult
}

// Apply rewrites ev.Scroll in place. The event's incoming delta is read as
// line units.
func (t *Transformer) Apply(ev *event.Event, s settings.ScrollSettings) {
	dx, dy := Adjust(ev.Scroll.DX, ev.Scroll.DY, ev.Modifiers, s)

	switch s.Smoothness {
	case settings.Off:
		ev.Scroll = event.ScrollDelta{
			Units: event.Lines,
			DX:    event.Clamp(dx, MaxStepLines),
			DY:    event.Clamp(dy, MaxStepLines),
		}
		return
	case settings.High:
		if t.momentum != nil {
			t.momentum.Impulse(dx*s.Inertia, dy*s.Inertia)
		}
	}

	ev.Scroll = event.ScrollDelta{
		Units: event.Pixels,
		DX:    dx * PixelFactor,
		DY:    dy * PixelFactor,
	}.Clamped()
}
