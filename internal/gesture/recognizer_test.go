package gesture

import (
	"testing"

	"github.com/phinze/overmouse/internal/settings"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		want   settings.Direction
		wantOK bool
	}{
		{"below threshold", 10, -29, 0, false},
		{"exactly threshold", 0, -30, settings.Up, true},
		{"up", 0, -40, settings.Up, true},
		{"down", 5, 40, settings.Down, true},
		{"left", -50, 10, settings.Left, true},
		{"right", 50, -10, settings.Right, true},
		{"tie goes vertical", 35, 35, settings.Down, true},
		{"negative tie goes vertical", -35, -35, settings.Up, true},
		{"zero", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.x, tt.y, 30)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Resolve(%v, %v) = %v, %v; want %v, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRecognizerSession(t *testing.T) {
	r := New(30)

	r.Track(100, 0)
	if r.Active() {
		t.Fatal("Track should not start a session")
	}
	if _, ok := r.End(); ok {
		t.Fatal("End without Begin should resolve nothing")
	}

	r.Begin()
	r.Track(0, -15)
	r.Track(0, -15)
	r.Track(3, -10)
	dir, ok := r.End()
	if !ok || dir != settings.Up {
		t.Errorf("got %v, %v; want up", dir, ok)
	}
	if r.Active() {
		t.Error("End should deactivate")
	}
	if x, y := r.Travel(); x != 0 || y != 0 {
		t.Errorf("End should clear travel, got %v, %v", x, y)
	}
}

func TestRecognizerEndClearsOnMiss(t *testing.T) {
	r := New(30)
	r.Begin()
	r.Track(5, 5)
	if _, ok := r.End(); ok {
		t.Fatal("small motion should not resolve")
	}
	if r.Active() {
		t.Error("End should deactivate even when nothing resolved")
	}

	r.Begin()
	r.Track(-31, 0)
	if dir, ok := r.End(); !ok || dir != settings.Left {
		t.Errorf("second session got %v, %v", dir, ok)
	}
}

func TestBeginSupersedes(t *testing.T) {
	r := New(30)
	r.Begin()
	r.Track(0, 200)
	r.Begin()
	r.Track(40, 0)
	if dir, _ := r.End(); dir != settings.Right {
		t.Errorf("got %v, want right", dir)
	}
}

func TestSetThreshold(t *testing.T) {
	r := New(30)
	r.SetThreshold(80)
	r.Begin()
	r.Track(0, 60)
	if _, ok := r.End(); ok {
		t.Error("60 should not pass an 80 threshold")
	}
}
