// Package executor performs resolved actions by posting synthetic keyboard,
// mouse and scroll events to the OS.
package executor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
)

// ErrUnsupported is returned by the backend on platforms that cannot post
// synthetic input.
var ErrUnsupported = errors.New("executor: posting synthetic input is not supported on this platform")

// Virtual key codes.
const (
	KeyLeftArrow    uint16 = 0x7B
	KeyRightArrow   uint16 = 0x7C
	KeyDownArrow    uint16 = 0x7D
	KeyUpArrow      uint16 = 0x7E
	KeyF3           uint16 = 0x63
	KeyLeftBracket  uint16 = 0x21
	KeyRightBracket uint16 = 0x1E
	KeyLaunchpad    uint16 = 0xA0
)

// Backend posts raw synthetic input. Every event it posts carries the
// synthetic marker so the capture hook lets it through.
type Backend interface {
	PostKey(key uint16, mods event.Modifiers) error
	PostMiddleClick() error
	PostScroll(d event.ScrollDelta, mods event.Modifiers) error
}

// StrokeKind is the shape of input an action turns into.
type StrokeKind uint8

const (
	NoStroke StrokeKind = iota
	KeyStroke
	MiddleClickStroke
	ZoomStroke
)

// Stroke is the synthetic input that performs one action.
type Stroke struct {
	Kind StrokeKind
	Key  uint16
	Mods event.Modifiers
}

// Plan maps an action to the input that performs it.
func Plan(a action.Action) Stroke {
	switch a.Kind {
	case action.MissionControl:
		return Stroke{Kind: KeyStroke, Key: KeyUpArrow, Mods: event.Control}
	case action.AppExpose:
		return Stroke{Kind: KeyStroke, Key: KeyDownArrow, Mods: event.Control}
	case action.Launchpad:
		return Stroke{Kind: KeyStroke, Key: KeyLaunchpad}
	case action.ShowDesktop:
		return Stroke{Kind: KeyStroke, Key: KeyF3, Mods: event.Command}
	case action.SmartZoom:
		return Stroke{Kind: ZoomStroke, Mods: event.Control}
	case action.NavigateBack:
		return Stroke{Kind: KeyStroke, Key: KeyLeftBracket, Mods: event.Command}
	case action.NavigateForward:
		return Stroke{Kind: KeyStroke, Key: KeyRightBracket, Mods: event.Command}
	case action.MiddleClick:
		return Stroke{Kind: MiddleClickStroke}
	case action.SwitchDesktopLeft:
		return Stroke{Kind: KeyStroke, Key: KeyLeftArrow, Mods: event.Control}
	case action.SwitchDesktopRight:
		return Stroke{Kind: KeyStroke, Key: KeyRightArrow, Mods: event.Control}
	case action.KeyboardShortcut:
		return Stroke{Kind: KeyStroke, Key: a.Shortcut.KeyCode, Mods: shortcutMods(a.Shortcut)}
	}
	return Stroke{}
}

func shortcutMods(s action.Shortcut) event.Modifiers {
	var m event.Modifiers
	if s.Shift {
		m |= event.Shift
	}
	if s.Control {
		m |= event.Control
	}
	if s.Option {
		m |= event.Option
	}
	if s.Command {
		m |= event.Command
	}
	return m
}

// Executor performs actions and posts momentum scroll steps.
type Executor struct {
	backend Backend
	log     *slog.Logger

	// quant is used only by the momentum goroutine through PostScroll.
	quant event.Quantizer
}

// New returns an Executor posting through the platform backend.
func New(log *slog.Logger) (*Executor, error) {
	b, err := newBackend()
	if err != nil {
		return nil, fmt.Errorf("creating input backend: %w", err)
	}
	return NewWithBackend(b, log), nil
}

// NewWithBackend returns an Executor posting through b.
func NewWithBackend(b Backend, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{backend: b, log: log}
}

// Execute performs a. Failures are logged, never returned, since the caller
// is a fire-and-forget dispatcher.
func (e *Executor) Execute(a action.Action) {
	if err := e.Perform(a); err != nil {
		e.log.Warn("action failed", "action", a.String(), "err", err)
	}
}

// Perform performs a and reports any failure.
func (e *Executor) Perform(a action.Action) error {
	st := Plan(a)
	switch st.Kind {
	case KeyStroke:
		return e.backend.PostKey(st.Key, st.Mods)
	case MiddleClickStroke:
		return e.backend.PostMiddleClick()
	case ZoomStroke:
		return e.backend.PostScroll(event.ScrollDelta{Units: event.Pixels}, st.Mods)
	}
	return nil
}

// PostScroll posts one synthetic scroll step. Fractions too small to post
// are carried into later steps.
func (e *Executor) PostScroll(d event.ScrollDelta) {
	d = e.quant.Step(d)
	if d.DX == 0 && d.DY == 0 {
		return
	}
	if err := e.backend.PostScroll(d, 0); err != nil {
		e.log.Debug("scroll post failed", "err", err)
	}
}
