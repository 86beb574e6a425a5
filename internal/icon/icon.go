// Package icon rasterizes the small SVG glyphs used by the menu-bar item
// and the playground window.
package icon

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/settings"
)

//go:embed svg/*.svg
var files embed.FS

// Name identifies an embedded glyph.
type Name string

const (
	ArrowUp    Name = "arrow-up"
	ArrowDown  Name = "arrow-down"
	ArrowLeft  Name = "arrow-left"
	ArrowRight Name = "arrow-right"
	Mouse      Name = "mouse"
	Grid       Name = "grid"
	Key        Name = "key"
)

// Palette
var (
	ColorActive   = colornames.Mediumseagreen
	ColorInactive = colornames.Gray
	ColorGesture  = colornames.Cornflowerblue
	ColorAction   = colornames.Gold
)

// ForDirection returns the arrow for a swipe direction.
func ForDirection(d settings.Direction) Name {
	switch d {
	case settings.Up:
		return ArrowUp
	case settings.Down:
		return ArrowDown
	case settings.Left:
		return ArrowLeft
	case settings.Right:
		return ArrowRight
	}
	return Mouse
}

// ForAction returns a glyph that suggests what k does.
func ForAction(k action.Kind) Name {
	switch k {
	case action.MissionControl:
		return ArrowUp
	case action.AppExpose:
		return ArrowDown
	case action.SwitchDesktopLeft, action.NavigateBack:
		return ArrowLeft
	case action.SwitchDesktopRight, action.NavigateForward:
		return ArrowRight
	case action.Launchpad, action.ShowDesktop:
		return Grid
	case action.KeyboardShortcut:
		return Key
	}
	return Mouse
}

// Render rasterizes name at size x size, painting currentColor with c.
func Render(name Name, size int, c color.Color) (*image.RGBA, error) {
	data, err := files.ReadFile("svg/" + string(name) + ".svg")
	if err != nil {
		return nil, fmt.Errorf("icon %q: %w", name, err)
	}

	// Replace currentColor with the actual color
	r, g, b, _ := c.RGBA()
	svg := strings.ReplaceAll(string(data), "currentColor", fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))

	ic, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parsing icon %q: %w", name, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Transparent}, image.Point{}, draw.Src)

	ic.SetTarget(0, 0, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	ic.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img, nil
}

// Scale resamples src to size x size.
func Scale(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// PNG renders name and encodes it for the menu bar.
func PNG(name Name, size int, c color.Color) ([]byte, error) {
	img, err := Render(name, size, c)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding icon %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
