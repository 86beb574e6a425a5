package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/settings"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want := settings.Defaults()
	got := cfg.Settings
	if got.Enabled != want.Enabled || len(got.Mappings) != len(want.Mappings) {
		t.Fatalf("got %+v, want defaults", got)
	}
	if got.Gestures != want.Gestures || got.Scroll != want.Scroll {
		t.Errorf("got %+v, want defaults", got)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeTemp(t, `
buttons:
  - button: middle
    click: double_click
    action: smart_zoom
  - button: button5
    click: click_and_hold
    action:
      shortcut:
        key_code: 49
        command: true
        name: Spotlight
scroll:
  smoothness: high
  speed: 2.5
  invert: true
gestures:
  threshold: 55
  swipe_up: launchpad
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s := cfg.Settings

	if a, ok := s.Lookup(event.Middle, settings.Double); !ok || a.Kind != action.SmartZoom {
		t.Errorf("middle double = %v, %v", a, ok)
	}
	a, ok := s.Lookup(event.Button5, settings.Hold)
	if !ok || a.Kind != action.KeyboardShortcut || a.Shortcut.KeyCode != 49 || !a.Shortcut.Command {
		t.Errorf("button5 hold = %+v, %v", a, ok)
	}
	if _, ok := s.Lookup(event.Button4, settings.Single); ok {
		t.Error("buttons list should replace the default mappings")
	}

	if s.Scroll.Smoothness != settings.High || s.Scroll.Speed != 2.5 || !s.Scroll.Invert {
		t.Errorf("scroll = %+v", s.Scroll)
	}
	if s.Scroll.Inertia != 0.7 || !s.Scroll.Precision {
		t.Errorf("unset scroll fields lost their defaults: %+v", s.Scroll)
	}

	if s.Gestures.Threshold != 55 || s.Gestures.SwipeUp.Kind != action.Launchpad {
		t.Errorf("gestures = %+v", s.Gestures)
	}
	if s.Gestures.SwipeDown.Kind != action.AppExpose || s.Gestures.Trigger != event.Button4 {
		t.Errorf("unset gesture fields lost their defaults: %+v", s.Gestures)
	}
}

func TestThresholdClamped(t *testing.T) {
	tests := []struct {
		body string
		want float64
	}{
		{"gestures:\n  threshold: 3\n", settings.MinThreshold},
		{"gestures:\n  threshold: 250\n", settings.MaxThreshold},
		{"gestures:\n  threshold: 10\n", 10},
	}
	for _, tt := range tests {
		cfg, err := LoadFile(writeTemp(t, tt.body))
		if err != nil {
			t.Fatal(err)
		}
		if got := cfg.Settings.Gestures.Threshold; got != tt.want {
			t.Errorf("%q: threshold = %v, want %v", tt.body, got, tt.want)
		}
		if clamped := tt.want != 10; clamped != (len(cfg.Warnings) == 1) {
			t.Errorf("%q: warnings = %v", tt.body, cfg.Warnings)
		}
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown button", "buttons:\n  - button: button9\n    click: single_click\n    action: launchpad\n"},
		{"unknown click", "buttons:\n  - button: middle\n    click: triple\n    action: launchpad\n"},
		{"unknown action", "gestures:\n  swipe_up: warp_speed\n"},
		{"shortcut by name", "gestures:\n  swipe_up: shortcut\n"},
		{"unknown smoothness", "scroll:\n  smoothness: silky\n"},
		{"speed too high", "scroll:\n  speed: 11\n"},
		{"negative speed", "scroll:\n  speed: -1\n"},
		{"inertia above one", "scroll:\n  inertia: 1.5\n"},
		{"not yaml", "buttons: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeTemp(t, tt.body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	t.Setenv("OVERMOUSE_LOG_LEVEL", "debug")
	t.Setenv("OVERMOUSE_LOG_FORMAT", "json")

	cfg, err := LoadFile(writeTemp(t, "log:\n  level: warn\n  format: text\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestDefaultConfigPathEnv(t *testing.T) {
	t.Setenv("OVERMOUSE_CONFIG", "/etc/overmouse.yaml")
	if got := DefaultConfigPath(); got != "/etc/overmouse.yaml" {
		t.Errorf("DefaultConfigPath() = %q", got)
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	f := DefaultFile()
	f.Buttons = append(f.Buttons, settings.ButtonMapping{
		Button: event.Right,
		Click:  settings.Drag,
		Action: action.Key(action.Shortcut{KeyCode: 0x7E, Control: true, Name: "Mission Control"}),
	})
	if err := WriteFile(path, f); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"navigate_back", "click_and_drag", "key_code: 126", "regular"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("written file missing %q:\n%s", want, data)
		}
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := cfg.Settings.Lookup(event.Right, settings.Drag)
	if !ok || a.Shortcut.KeyCode != 0x7E || !a.Shortcut.Control {
		t.Errorf("right drag = %+v, %v", a, ok)
	}
}
