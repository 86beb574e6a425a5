package settings

import (
	"testing"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
)

func TestLookup(t *testing.T) {
	s := Defaults()

	a, ok := s.Lookup(event.Button4, Single)
	if !ok || a.Kind != action.NavigateBack {
		t.Errorf("button4 single = %v, %v", a, ok)
	}
	if _, ok := s.Lookup(event.Button4, Double); ok {
		t.Error("button4 double should not be mapped by default")
	}
	if _, ok := s.Lookup(event.Left, Single); ok {
		t.Error("left should not be mapped by default")
	}
}

func TestHasAnyMappingIgnoresTrivial(t *testing.T) {
	s := &Snapshot{Mappings: []ButtonMapping{
		{Button: event.Right, Click: Hold, Action: action.Of(action.None)},
		{Button: event.Middle, Click: Drag, Action: action.Of(action.Launchpad)},
	}}
	if s.HasAnyMapping(event.Right) {
		t.Error("a none mapping should not count")
	}
	if !s.HasAnyMapping(event.Middle) {
		t.Error("middle has a drag mapping")
	}
	if s.HasAnyMapping(event.Button(9)) {
		t.Error("unknown button should have no mapping")
	}
}

func TestStorePublishIsolatesCaller(t *testing.T) {
	st := NewStore(nil)
	next := Defaults()
	next.Enabled = false
	st.Publish(next)

	next.Enabled = true
	next.Mappings[0].Action = action.Of(action.Launchpad)

	cur := st.Current()
	if cur.Enabled {
		t.Error("mutating the published value leaked into the store")
	}
	if cur.Mappings[0].Action.Kind != action.NavigateBack {
		t.Error("mapping slice is shared with the caller")
	}
}

func TestStoreUpdateNotifies(t *testing.T) {
	st := NewStore(Defaults())
	var seen *Snapshot
	st.Subscribe(func(s *Snapshot) { seen = s })

	before := st.Current()
	after := st.Update(func(s *Snapshot) { s.Gestures.Threshold = 50 })

	if before.Gestures.Threshold != DefaultThreshold {
		t.Errorf("old snapshot changed: %v", before.Gestures.Threshold)
	}
	if after.Gestures.Threshold != 50 {
		t.Errorf("new threshold = %v", after.Gestures.Threshold)
	}
	if seen != after {
		t.Error("subscriber did not receive the published snapshot")
	}
}

func TestClickTypeText(t *testing.T) {
	var c ClickType
	if err := c.UnmarshalText([]byte("click_and_drag")); err != nil || c != Drag {
		t.Errorf("got %v, %v", c, err)
	}
	if err := c.UnmarshalText([]byte("triple")); err == nil {
		t.Error("expected error for unknown click type")
	}
}
