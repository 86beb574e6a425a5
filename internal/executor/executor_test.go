package executor

import (
	"errors"
	"testing"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
)

type posted struct {
	kind   string
	key    uint16
	mods   event.Modifiers
	scroll event.ScrollDelta
}

type recordingBackend struct {
	got []posted
	err error
}

func (r *recordingBackend) PostKey(key uint16, mods event.Modifiers) error {
	r.got = append(r.got, posted{kind: "key", key: key, mods: mods})
	return r.err
}

func (r *recordingBackend) PostMiddleClick() error {
	r.got = append(r.got, posted{kind: "middle"})
	return r.err
}

func (r *recordingBackend) PostScroll(d event.ScrollDelta, mods event.Modifiers) error {
	r.got = append(r.got, posted{kind: "scroll", scroll: d, mods: mods})
	return r.err
}

func TestPlan(t *testing.T) {
	tests := []struct {
		a    action.Action
		want Stroke
	}{
		{action.Of(action.MissionControl), Stroke{KeyStroke, KeyUpArrow, event.Control}},
		{action.Of(action.AppExpose), Stroke{KeyStroke, KeyDownArrow, event.Control}},
		{action.Of(action.Launchpad), Stroke{KeyStroke, KeyLaunchpad, 0}},
		{action.Of(action.ShowDesktop), Stroke{KeyStroke, KeyF3, event.Command}},
		{action.Of(action.SmartZoom), Stroke{ZoomStroke, 0, event.Control}},
		{action.Of(action.NavigateBack), Stroke{KeyStroke, KeyLeftBracket, event.Command}},
		{action.Of(action.NavigateForward), Stroke{KeyStroke, KeyRightBracket, event.Command}},
		{action.Of(action.MiddleClick), Stroke{MiddleClickStroke, 0, 0}},
		{action.Of(action.SwitchDesktopLeft), Stroke{KeyStroke, KeyLeftArrow, event.Control}},
		{action.Of(action.SwitchDesktopRight), Stroke{KeyStroke, KeyRightArrow, event.Control}},
		{action.Of(action.None), Stroke{}},
		{
			action.Key(action.Shortcut{KeyCode: 49, Command: true, Option: true}),
			Stroke{KeyStroke, 49, event.Command | event.Option},
		},
		{
			action.Key(action.Shortcut{KeyCode: 3, Shift: true, Control: true}),
			Stroke{KeyStroke, 3, event.Shift | event.Control},
		},
	}
	for _, tt := range tests {
		if got := Plan(tt.a); got != tt.want {
			t.Errorf("Plan(%v) = %+v, want %+v", tt.a, got, tt.want)
		}
	}
}

func TestPerform(t *testing.T) {
	b := &recordingBackend{}
	e := NewWithBackend(b, nil)

	for _, k := range []action.Kind{action.NavigateBack, action.MiddleClick, action.SmartZoom, action.None} {
		if err := e.Perform(action.Of(k)); err != nil {
			t.Fatalf("Perform(%v): %v", k, err)
		}
	}

	want := []posted{
		{kind: "key", key: KeyLeftBracket, mods: event.Command},
		{kind: "middle"},
		{kind: "scroll", scroll: event.ScrollDelta{Units: event.Pixels}, mods: event.Control},
	}
	if len(b.got) != len(want) {
		t.Fatalf("posted %+v, want %+v", b.got, want)
	}
	for i := range want {
		if b.got[i] != want[i] {
			t.Errorf("post %d = %+v, want %+v", i, b.got[i], want[i])
		}
	}
}

func TestExecuteSwallowsErrors(t *testing.T) {
	b := &recordingBackend{err: errors.New("boom")}
	e := NewWithBackend(b, nil)
	e.Execute(action.Of(action.Launchpad))
	if len(b.got) != 1 {
		t.Errorf("posted %d events, want 1", len(b.got))
	}
}

func TestPostScrollClamps(t *testing.T) {
	b := &recordingBackend{}
	e := NewWithBackend(b, nil)
	e.PostScroll(event.ScrollDelta{Units: event.Pixels, DY: 1e6, DX: -12})

	got := b.got[0].scroll
	if got.DY != event.MaxPixelDelta || got.DX != -12 {
		t.Errorf("scroll = %+v", got)
	}
	if b.got[0].mods != 0 {
		t.Errorf("momentum scroll should carry no modifiers, got %v", b.got[0].mods)
	}
}

func TestPostScrollCarriesFractions(t *testing.T) {
	b := &recordingBackend{}
	e := NewWithBackend(b, nil)
	for i := 0; i < 5; i++ {
		e.PostScroll(event.ScrollDelta{Units: event.Pixels, DY: 0.4})
	}

	var total float64
	for _, p := range b.got {
		if p.scroll.DY == 0 {
			t.Errorf("posted an empty scroll step")
		}
		total += p.scroll.DY
	}
	if total != 2 {
		t.Errorf("posted %v pixels over %d steps, want 2", total, len(b.got))
	}
}
