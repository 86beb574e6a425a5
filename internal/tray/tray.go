// Package tray provides the menu-bar item using getlantern/systray.
package tray

import (
	"log/slog"

	"github.com/getlantern/systray"

	"github.com/phinze/overmouse/internal/icon"
)

const iconSize = 22

// Controller is what the menu drives.
type Controller interface {
	Enabled() bool
	SetEnabled(on bool)
	Reload()
	Quit()
}

// Tray manages the menu-bar icon and menu.
type Tray struct {
	ctl Controller
	log *slog.Logger

	active, inactive []byte
	toggle           *systray.MenuItem
	quitCh           chan struct{}
}

// New creates the menu-bar item. Nothing is shown until Run.
func New(ctl Controller, log *slog.Logger) *Tray {
	t := &Tray{ctl: ctl, log: log, quitCh: make(chan struct{})}

	var err error
	if t.active, err = icon.PNG(icon.Mouse, iconSize, icon.ColorActive); err != nil {
		log.Warn("rendering tray icon", "err", err)
	}
	if t.inactive, err = icon.PNG(icon.Mouse, iconSize, icon.ColorInactive); err != nil {
		log.Warn("rendering tray icon", "err", err)
	}
	return t
}

// Run starts the tray event loop. It blocks and must be called from the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.setupMenu, func() { close(t.quitCh) })
}

// Stop removes the item and makes Run return.
func (t *Tray) Stop() {
	systray.Quit()
}

// Refresh updates the toggle and icon after the enabled state changed
// elsewhere, such as on a configuration reload.
func (t *Tray) Refresh() {
	if t.toggle == nil {
		return
	}
	on := t.ctl.Enabled()
	if on {
		t.toggle.Check()
	} else {
		t.toggle.Uncheck()
	}
	if img := t.iconFor(on); img != nil {
		systray.SetIcon(img)
	}
}

func (t *Tray) iconFor(on bool) []byte {
	if on {
		return t.active
	}
	return t.inactive
}

func (t *Tray) setupMenu() {
	systray.SetTooltip("overmouse")
	if img := t.iconFor(t.ctl.Enabled()); img != nil {
		systray.SetIcon(img)
	} else {
		systray.SetTitle("OM")
	}

	t.toggle = systray.AddMenuItem("Enabled", "Intercept mouse buttons and scrolling")
	reload := systray.AddMenuItem("Reload Configuration", "Re-read config.yaml")
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit overmouse", "")
	t.Refresh()

	go func() {
		for {
			select {
			case <-t.toggle.ClickedCh:
				on := !t.ctl.Enabled()
				t.log.Info("toggled from menu bar", "enabled", on)
				t.ctl.SetEnabled(on)
				t.Refresh()
			case <-reload.ClickedCh:
				t.ctl.Reload()
				t.Refresh()
			case <-quit.ClickedCh:
				t.ctl.Quit()
				return
			case <-t.quitCh:
				return
			}
		}
	}()
}
