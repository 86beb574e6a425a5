package icon

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/settings"
)

func TestRenderAll(t *testing.T) {
	for _, n := range []Name{ArrowUp, ArrowDown, ArrowLeft, ArrowRight, Mouse, Grid, Key} {
		img, err := Render(n, 32, ColorGesture)
		if err != nil {
			t.Fatalf("Render(%s): %v", n, err)
		}
		painted := 0
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				if img.RGBAAt(x, y).A > 0 {
					painted++
				}
			}
		}
		if painted == 0 {
			t.Errorf("%s rendered nothing", n)
		}
	}
}

func TestRenderUnknown(t *testing.T) {
	if _, err := Render("nope", 16, ColorAction); err == nil {
		t.Error("expected error for unknown icon")
	}
}

func TestArrowPointsUp(t *testing.T) {
	img, err := Render(ArrowUp, 48, ColorAction)
	if err != nil {
		t.Fatal(err)
	}
	width := func(y int) int {
		n := 0
		for x := 0; x < 48; x++ {
			if img.RGBAAt(x, y).A > 128 {
				n++
			}
		}
		return n
	}
	// Head near the top is wider than the shaft near the bottom.
	if head, shaft := width(20), width(36); head <= shaft {
		t.Errorf("head width %d <= shaft width %d", head, shaft)
	}
}

func TestScale(t *testing.T) {
	img, err := Render(Mouse, 64, ColorActive)
	if err != nil {
		t.Fatal(err)
	}
	if got := Scale(img, 18).Bounds().Dx(); got != 18 {
		t.Errorf("scaled width = %d", got)
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG(Mouse, 22, ColorActive)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 22 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestForAction(t *testing.T) {
	if ForAction(action.MissionControl) != ForDirection(settings.Up) {
		t.Error("mission control should share the up arrow")
	}
	if ForAction(action.None) != Mouse {
		t.Error("none should fall back to the mouse glyph")
	}
}
