// Package event defines the raw pointer events delivered by the capture hook
// and the verdict a handler returns for each of them.
package event

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind identifies what happened on the pointer device.
type Kind uint8

const (
	// ButtonDown is a press of any pointer button.
	ButtonDown Kind = iota + 1
	// ButtonUp is a release of any pointer button.
	ButtonUp
	// Dragged is pointer motion while a button is held.
	Dragged
	// Scroll is a scroll-wheel event.
	Scroll
)

func (k Kind) String() string {
	switch k {
	case ButtonDown:
		return "down"
	case ButtonUp:
		return "up"
	case Dragged:
		return "dragged"
	case Scroll:
		return "scroll"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Button is the logical button number reported by the hardware.
type Button int

// Buttons with a known name. Anything else is reported as-is and passes
// through the interceptor untouched.
const (
	Left Button = iota
	Right
	Middle
	Button4
	Button5
)

var buttonNames = map[Button]string{
	Left:    "left",
	Right:   "right",
	Middle:  "middle",
	Button4: "button4",
	Button5: "button5",
}

// Known reports whether b is one of the named buttons.
func (b Button) Known() bool {
	_, ok := buttonNames[b]
	return ok
}

func (b Button) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return fmt.Sprintf("button(%d)", int(b))
}

// ParseButton maps a configuration name back to a Button.
func ParseButton(s string) (Button, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for b, name := range buttonNames {
		if name == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Button) UnmarshalText(text []byte) error {
	v, err := ParseButton(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Modifiers is the set of modifier keys held when the event was generated.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Control
	Option
	Command
)

// Has reports whether every modifier in m is held.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// Units describes how scroll deltas are interpreted.
type Units uint8

const (
	// Lines are coarse wheel notches.
	Lines Units = iota
	// Pixels are fine-grained continuous deltas.
	Pixels
)

// Field ranges for values written back into a platform scroll event.
const (
	MaxLineDelta  = 127
	MaxPixelDelta = math.MaxInt16
)

// ScrollDelta carries the two wheel axes. DY is the vertical axis.
type ScrollDelta struct {
	Units Units
	DX    float64
	DY    float64
}

// Clamped returns the delta limited to the representable range of its units.
func (d ScrollDelta) Clamped() ScrollDelta {
	limit := float64(MaxLineDelta)
	if d.Units == Pixels {
		limit = MaxPixelDelta
	}
	d.DX = Clamp(d.DX, limit)
	d.DY = Clamp(d.DY, limit)
	return d
}

// Quantizer turns fractional deltas into the whole steps a platform event
// field can hold. The rounding remainder is carried into the next delta on
// the same axis, so slow precise scrolling still adds up. A change of
// direction or units drops the remainder. Not safe for concurrent use.
type Quantizer struct {
	units Units
	x, y  carry
}

type carry struct {
	rem float64
	neg bool
}

func (c *carry) step(v float64) float64 {
	if v == 0 {
		return 0
	}
	if neg := v < 0; neg != c.neg {
		c.rem = 0
		c.neg = neg
	}
	total := v + c.rem
	out := math.Round(total)
	c.rem = total - out
	return out
}

// Step returns d rounded to whole units and clamped to its field range.
func (q *Quantizer) Step(d ScrollDelta) ScrollDelta {
	if d.Units != q.units {
		*q = Quantizer{units: d.Units}
	}
	d.DX = q.x.step(d.DX)
	d.DY = q.y.step(d.DY)
	return d.Clamped()
}

// Clamp limits v to [-limit, limit].
func Clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

// Event is a single raw input event. Handlers treat it as read-only apart
// from the scroll delta, which the scroll transformer may rewrite before
// returning Modify.
type Event struct {
	Kind      Kind
	Button    Button
	DX        float64
	DY        float64
	Scroll    ScrollDelta
	Modifiers Modifiers
	Time      time.Time
}

// Verdict tells the hook what to do with an event after handling.
type Verdict uint8

const (
	// Pass delivers the event unchanged.
	Pass Verdict = iota
	// Modify delivers the event with its rewritten scroll delta.
	Modify
	// Swallow drops the event entirely.
	Swallow
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Modify:
		return "modify"
	case Swallow:
		return "swallow"
	}
	return fmt.Sprintf("verdict(%d)", uint8(v))
}
