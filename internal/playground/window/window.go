// Package window renders the playground with Ebitengine.
package window

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/coordinator"
	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/icon"
	"github.com/phinze/overmouse/internal/playground"
)

// Layout constants
const (
	windowWidth  = 960
	windowHeight = 640
	padWidth     = 620
	marginX      = 20
	headerHeight = 60
	panelX       = marginX + padWidth + 20
	iconSize     = 32
	journalSize  = 14
	trailSize    = 256
)

var (
	colorBackground = color.RGBA{25, 25, 25, 255}
	colorPad        = color.RGBA{40, 40, 40, 255}
	colorGauge      = color.RGBA{60, 60, 60, 255}
)

var mouseButtons = [5]ebiten.MouseButton{
	event.Left:    ebiten.MouseButtonLeft,
	event.Right:   ebiten.MouseButtonRight,
	event.Middle:  ebiten.MouseButtonMiddle,
	event.Button4: ebiten.MouseButton3,
	event.Button5: ebiten.MouseButton4,
}

// Game implements ebiten.Game.
type Game struct {
	tap   *playground.Tap
	feed  *playground.Feed
	coord *coordinator.Coordinator
	log   *slog.Logger
	ctx   context.Context

	synth   playground.Synth
	journal []string
	trail   []vec
	icons   map[icon.Name]*ebiten.Image
}

type vec struct{ x, y float32 }

// New creates the playground window around a running coordinator whose
// tap and executor are tap and feed.
func New(tap *playground.Tap, feed *playground.Feed, coord *coordinator.Coordinator, log *slog.Logger) *Game {
	g := &Game{
		tap:   tap,
		feed:  feed,
		coord: coord,
		log:   log,
		icons: make(map[icon.Name]*ebiten.Image),
	}
	for _, n := range []icon.Name{icon.ArrowUp, icon.ArrowDown, icon.ArrowLeft, icon.ArrowRight, icon.Mouse, icon.Grid, icon.Key} {
		img, err := icon.Render(n, iconSize*2, icon.ColorAction)
		if err != nil {
			log.Warn("rendering icon", "icon", n, "err", err)
			continue
		}
		g.icons[n] = ebiten.NewImageFromImage(icon.Scale(img, iconSize))
	}
	return g
}

// Run opens the window and blocks until it is closed or ctx ends. It must
// be called from the main goroutine.
func (g *Game) Run(ctx context.Context) error {
	g.ctx = ctx
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("overmouse playground")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	if g.ctx != nil && g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.coord.SetEnabled(!g.coord.Enabled())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.coord.Reload()
	}

	for _, ev := range g.synth.Next(g.sample()) {
		g.deliver(ev)
	}
	return nil
}

// sample reads the pointer state. Digit keys 4 and 5 stand in for the side
// buttons on mice and trackpads that lack them.
func (g *Game) sample() playground.Frame {
	var f playground.Frame
	for i, mb := range mouseButtons {
		f.Buttons[i] = ebiten.IsMouseButtonPressed(mb)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDigit4) {
		f.Buttons[event.Button4] = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyDigit5) {
		f.Buttons[event.Button5] = true
	}

	x, y := ebiten.CursorPosition()
	f.X, f.Y = float64(x), float64(y)
	f.WheelX, f.WheelY = ebiten.Wheel()
	f.Time = time.Now()

	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		f.Mods |= event.Shift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		f.Mods |= event.Control
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		f.Mods |= event.Option
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		f.Mods |= event.Command
	}
	return f
}

func (g *Game) deliver(ev event.Event) {
	v, out := g.tap.Deliver(ev)

	switch ev.Kind {
	case event.ButtonDown:
		g.trail = g.trail[:0]
		x, y := ebiten.CursorPosition()
		g.trail = append(g.trail, vec{float32(x), float32(y)})
	case event.Dragged:
		if len(g.trail) > 0 && len(g.trail) < trailSize {
			last := g.trail[len(g.trail)-1]
			g.trail = append(g.trail, vec{last.x + float32(ev.DX), last.y + float32(ev.DY)})
		}
		if v == event.Pass {
			// Drag reports are too chatty for the journal.
			return
		}
	case event.Scroll:
		if v == event.Modify {
			g.feed.AddScroll(out.Scroll)
		}
	}

	line := fmt.Sprintf("%-7s %-8s -> %s", ev.Kind, ev.Button, v)
	if ev.Kind == event.Scroll {
		line = fmt.Sprintf("%-7s %+.1f,%+.1f -> %s", ev.Kind, ev.Scroll.DX, ev.Scroll.DY, v)
	}
	g.journal = append(g.journal, line)
	if n := len(g.journal); n > journalSize {
		g.journal = append(g.journal[:0], g.journal[n-journalSize:]...)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	state := "enabled"
	if !g.coord.Enabled() {
		state = "disabled"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("overmouse playground (%s)   E: toggle   R: reload config   Esc: quit", state), marginX, 10)
	ebitenutil.DebugPrintAt(screen, "Click, hold, drag and scroll in the pad. Keys 4 and 5 act as the side buttons.", marginX, 30)

	padTop := float32(headerHeight)
	padH := float32(windowHeight - headerHeight - 20)
	vector.DrawFilledRect(screen, marginX, padTop, padWidth, padH, colorPad, false)

	g.drawTrail(screen)
	g.drawScrollGauge(screen, padTop, padH)
	g.drawFeed(screen)
	g.drawJournal(screen)
}

func (g *Game) drawTrail(screen *ebiten.Image) {
	gest := g.coord.Store().Current().Gestures
	clr := colornames.Lightgray
	if gest.Enabled && g.pressed(gest.Trigger) {
		clr = icon.ColorGesture
	}
	for i := 1; i < len(g.trail); i++ {
		a, b := g.trail[i-1], g.trail[i]
		vector.StrokeLine(screen, a.x, a.y, b.x, b.y, 3, clr, true)
	}
}

func (g *Game) pressed(b event.Button) bool {
	if int(b) < len(mouseButtons) && ebiten.IsMouseButtonPressed(mouseButtons[b]) {
		return true
	}
	switch b {
	case event.Button4:
		return ebiten.IsKeyPressed(ebiten.KeyDigit4)
	case event.Button5:
		return ebiten.IsKeyPressed(ebiten.KeyDigit5)
	}
	return false
}

// drawScrollGauge shows accumulated scroll output as a marker moving along
// the right edge of the pad.
func (g *Game) drawScrollGauge(screen *ebiten.Image, top, h float32) {
	x := float32(marginX + padWidth - 14)
	vector.DrawFilledRect(screen, x, top, 8, h, colorGauge, false)

	_, sy, steps := g.feed.Scroll()
	off := float32(math.Mod(sy/4, float64(h)))
	if off < 0 {
		off += h
	}
	vector.DrawFilledRect(screen, x, top+off, 8, 12, icon.ColorActive, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("scroll %.0f  momentum steps %d", sy, steps), marginX+8, int(top+h)-18)
}

func (g *Game) drawFeed(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Actions", panelX, headerHeight)
	y := headerHeight + 20
	entries := g.feed.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		a := entries[i].Action
		if img := g.icons[icon.ForAction(a.Kind)]; img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(panelX), float64(y))
			if i != len(entries)-1 {
				op.ColorScale.ScaleAlpha(0.5)
			}
			screen.DrawImage(img, op)
		}
		ebitenutil.DebugPrintAt(screen, label(a), panelX+iconSize+8, y+10)
		y += iconSize + 4
	}
}

func (g *Game) drawJournal(screen *ebiten.Image) {
	y := windowHeight - 20 - journalSize*16
	ebitenutil.DebugPrintAt(screen, "Events", panelX, y-20)
	for _, line := range g.journal {
		ebitenutil.DebugPrintAt(screen, line, panelX, y)
		y += 16
	}
}

func label(a action.Action) string {
	if a.Kind == action.KeyboardShortcut && a.Shortcut.Name != "" {
		return a.Shortcut.Name
	}
	return a.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}
