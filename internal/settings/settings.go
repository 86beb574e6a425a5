// Package settings holds the immutable configuration snapshot read by the
// hook path and the store that publishes replacements.
package settings

import (
	"fmt"
	"strings"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
)

// ClickType is the classification of a completed press.
type ClickType uint8

const (
	Single ClickType = iota
	Double
	Hold
	Drag
)

var clickNames = map[ClickType]string{
	Single: "single_click",
	Double: "double_click",
	Hold:   "click_and_hold",
	Drag:   "click_and_drag",
}

func (c ClickType) String() string {
	if name, ok := clickNames[c]; ok {
		return name
	}
	return fmt.Sprintf("click(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c ClickType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ClickType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for k, name := range clickNames {
		if name == s {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown click type %q", s)
}

// Smoothness selects how scroll deltas are re-emitted.
type Smoothness uint8

const (
	// Off emits coarse line deltas.
	Off Smoothness = iota
	// Regular emits scaled pixel deltas.
	Regular
	// High emits pixel deltas and adds decaying momentum.
	High
)

var smoothnessNames = map[Smoothness]string{
	Off:     "off",
	Regular: "regular",
	High:    "high",
}

func (s Smoothness) String() string {
	if name, ok := smoothnessNames[s]; ok {
		return name
	}
	return fmt.Sprintf("smoothness(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Smoothness) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Smoothness) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	for k, name := range smoothnessNames {
		if name == v {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown smoothness %q", v)
}

// ButtonMapping binds a (button, click type) pair to an action.
type ButtonMapping struct {
	Button event.Button  `yaml:"button"`
	Click  ClickType     `yaml:"click"`
	Action action.Action `yaml:"action"`
}

// ScrollSettings controls the scroll transformer.
type ScrollSettings struct {
	Smoothness Smoothness `yaml:"smoothness"`
	Inertia    float64    `yaml:"inertia"`
	Speed      float64    `yaml:"speed"`
	Invert     bool       `yaml:"invert"`
	Precision  bool       `yaml:"precision_modifier"`
}

// Direction is a resolved swipe direction.
type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// GestureSettings controls the gesture trigger and what each swipe does.
type GestureSettings struct {
	Enabled    bool          `yaml:"enabled"`
	Trigger    event.Button  `yaml:"trigger"`
	Threshold  float64       `yaml:"threshold"`
	SwipeUp    action.Action `yaml:"swipe_up"`
	SwipeDown  action.Action `yaml:"swipe_down"`
	SwipeLeft  action.Action `yaml:"swipe_left"`
	SwipeRight action.Action `yaml:"swipe_right"`
	ScrollUp   action.Action `yaml:"scroll_up"`
	ScrollDown action.Action `yaml:"scroll_down"`
}

// ForDirection returns the swipe action bound to d.
func (g GestureSettings) ForDirection(d Direction) action.Action {
	switch d {
	case Up:
		return g.SwipeUp
	case Down:
		return g.SwipeDown
	case Left:
		return g.SwipeLeft
	case Right:
		return g.SwipeRight
	}
	return action.Of(action.None)
}

// Snapshot is the whole configuration at one point in time. A published
// Snapshot is never modified.
type Snapshot struct {
	Enabled  bool
	Mappings []ButtonMapping
	Scroll   ScrollSettings
	Gestures GestureSettings
}

// Lookup returns the action mapped to (b, c). The first matching entry wins.
func (s *Snapshot) Lookup(b event.Button, c ClickType) (action.Action, bool) {
	for _, m := range s.Mappings {
		if m.Button == b && m.Click == c {
			return m.Action, true
		}
	}
	return action.Action{}, false
}

// HasAnyMapping reports whether b has a non-trivial action for any click type.
func (s *Snapshot) HasAnyMapping(b event.Button) bool {
	for _, m := range s.Mappings {
		if m.Button == b && !m.Action.Trivial() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Mappings = append([]ButtonMapping(nil), s.Mappings...)
	return &c
}

// Gesture threshold bounds and default.
const (
	DefaultThreshold = 30
	MinThreshold     = 10
	MaxThreshold     = 100
)

// Defaults returns the out-of-the-box configuration.
func Defaults() *Snapshot {
	return &Snapshot{
		Enabled: true,
		Mappings: []ButtonMapping{
			{Button: event.Button4, Click: Single, Action: action.Of(action.NavigateBack)},
			{Button: event.Button5, Click: Single, Action: action.Of(action.NavigateForward)},
			{Button: event.Middle, Click: Single, Action: action.Of(action.MiddleClick)},
		},
		Scroll: ScrollSettings{
			Smoothness: Regular,
			Inertia:    0.7,
			Speed:      1.0,
			Precision:  true,
		},
		Gestures: GestureSettings{
			Enabled:    true,
			Trigger:    event.Button4,
			Threshold:  DefaultThreshold,
			SwipeUp:    action.Of(action.MissionControl),
			SwipeDown:  action.Of(action.AppExpose),
			SwipeLeft:  action.Of(action.SwitchDesktopLeft),
			SwipeRight: action.Of(action.SwitchDesktopRight),
			ScrollUp:   action.Of(action.ShowDesktop),
			ScrollDown: action.Of(action.Launchpad),
		},
	}
}
