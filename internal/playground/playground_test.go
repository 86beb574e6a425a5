package playground

import (
	"testing"
	"time"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
)

func kinds(evs []event.Event) []event.Kind {
	out := make([]event.Kind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

func TestSynthPressDragRelease(t *testing.T) {
	var s Synth
	at := time.Unix(100, 0)

	if evs := s.Next(Frame{X: 10, Y: 10, Time: at}); len(evs) != 0 {
		t.Fatalf("idle first frame produced %v", kinds(evs))
	}

	f := Frame{X: 10, Y: 10, Time: at}
	f.Buttons[event.Button4] = true
	evs := s.Next(f)
	if len(evs) != 1 || evs[0].Kind != event.ButtonDown || evs[0].Button != event.Button4 {
		t.Fatalf("press produced %+v", evs)
	}
	if !evs[0].Time.Equal(at) {
		t.Errorf("time not carried over")
	}

	f.X, f.Y = 14, 2
	evs = s.Next(f)
	if len(evs) != 1 || evs[0].Kind != event.Dragged || evs[0].DX != 4 || evs[0].DY != -8 {
		t.Fatalf("drag produced %+v", evs)
	}

	f.Buttons[event.Button4] = false
	evs = s.Next(f)
	if len(evs) != 1 || evs[0].Kind != event.ButtonUp || evs[0].Button != event.Button4 {
		t.Fatalf("release produced %+v", evs)
	}
}

func TestSynthOrdering(t *testing.T) {
	var s Synth
	f := Frame{}
	f.Buttons[event.Left] = true
	s.Next(f)

	f = Frame{X: 5, WheelY: -1, Mods: event.Shift}
	f.Buttons[event.Right] = true
	evs := s.Next(f)

	want := []event.Kind{event.ButtonUp, event.ButtonDown, event.Scroll}
	got := kinds(evs)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if evs[2].Scroll.DY != -1 || evs[2].Scroll.Units != event.Lines {
		t.Errorf("scroll = %+v", evs[2].Scroll)
	}
	if !evs[2].Modifiers.Has(event.Shift) {
		t.Error("modifiers not carried over")
	}
}

func TestTapDeliver(t *testing.T) {
	tap := NewTap()
	ev := event.Event{Kind: event.Scroll, Scroll: event.ScrollDelta{DY: 1}}

	if v, _ := tap.Deliver(ev); v != event.Pass {
		t.Errorf("uninstalled tap verdict = %v", v)
	}

	err := tap.Install(func(e *event.Event) event.Verdict {
		e.Scroll.DY *= 3
		return event.Modify
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, out := tap.Deliver(ev)
	if v != event.Modify || out.Scroll.DY != 3 {
		t.Errorf("verdict=%v scroll=%+v", v, out.Scroll)
	}
	if ev.Scroll.DY != 1 {
		t.Error("caller's event was modified")
	}

	tap.Remove()
	if tap.Installed() || tap.Enabled() {
		t.Error("tap still installed after Remove")
	}
	tap.Enable()
	if tap.Enabled() {
		t.Error("Enable should not revive a removed tap")
	}
}

func TestFeed(t *testing.T) {
	f := NewFeed()
	for i := 0; i < feedSize+3; i++ {
		f.Execute(action.Of(action.Launchpad))
	}
	f.Execute(action.Of(action.MissionControl))

	got := f.Entries()
	if len(got) != feedSize {
		t.Fatalf("len = %d, want %d", len(got), feedSize)
	}
	if got[len(got)-1].Action.Kind != action.MissionControl {
		t.Errorf("newest entry = %v", got[len(got)-1].Action)
	}

	f.PostScroll(event.ScrollDelta{Units: event.Pixels, DY: 6})
	f.PostScroll(event.ScrollDelta{Units: event.Pixels, DY: 3, DX: -1})
	f.AddScroll(event.ScrollDelta{DY: 1})
	x, y, steps := f.Scroll()
	if x != -1 || y != 10 || steps != 2 {
		t.Errorf("scroll = %v, %v, %d", x, y, steps)
	}
}
