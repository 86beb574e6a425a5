package executor

import (
	"errors"

	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/hook"
	"github.com/phinze/overmouse/internal/macos"
)

type quartz struct {
	src macos.CGEventSourceRef
}

func newBackend() (Backend, error) {
	src := macos.CGEventSourceCreate(macos.SourceStateHIDSystem)
	if src == 0 {
		return nil, errors.New("CGEventSourceCreate returned NULL")
	}
	return &quartz{src: src}, nil
}

func flags(mods event.Modifiers) macos.CGEventFlags {
	var f macos.CGEventFlags
	if mods.Has(event.Shift) {
		f |= macos.FlagShift
	}
	if mods.Has(event.Control) {
		f |= macos.FlagControl
	}
	if mods.Has(event.Option) {
		f |= macos.FlagAlternate
	}
	if mods.Has(event.Command) {
		f |= macos.FlagCommand
	}
	return f
}

// post marks ev as synthetic, posts it and releases it.
func (q *quartz) post(ev macos.CGEventRef) {
	macos.CGEventSetIntegerValueField(ev, macos.EventSourceUserData, hook.SyntheticMarker)
	macos.CGEventPost(macos.HIDEventTap, ev)
	macos.CFRelease(macos.CFTypeRef(ev))
}

func (q *quartz) PostKey(key uint16, mods event.Modifiers) error {
	f := flags(mods)
	for _, down := range []bool{true, false} {
		ev := macos.CGEventCreateKeyboardEvent(q.src, macos.CGKeyCode(key), down)
		if ev == 0 {
			return errors.New("CGEventCreateKeyboardEvent returned NULL")
		}
		macos.CGEventSetFlags(ev, f)
		q.post(ev)
	}
	return nil
}

func (q *quartz) PostMiddleClick() error {
	probe := macos.CGEventCreate(0)
	if probe == 0 {
		return errors.New("CGEventCreate returned NULL")
	}
	pos := macos.CGEventGetLocation(probe)
	macos.CFRelease(macos.CFTypeRef(probe))

	for _, typ := range []macos.CGEventType{macos.OtherMouseDown, macos.OtherMouseUp} {
		ev := macos.CGEventCreateMouseEvent(q.src, typ, pos, macos.MouseButtonCenter)
		if ev == 0 {
			return errors.New("CGEventCreateMouseEvent returned NULL")
		}
		q.post(ev)
	}
	return nil
}

func (q *quartz) PostScroll(d event.ScrollDelta, mods event.Modifiers) error {
	unit := macos.ScrollUnitPixel
	if d.Units == event.Lines {
		unit = macos.ScrollUnitLine
	}
	ev := macos.CGEventCreateScrollWheelEvent2(q.src, unit, 2, int32(d.DY), int32(d.DX), 0)
	if ev == 0 {
		return errors.New("CGEventCreateScrollWheelEvent2 returned NULL")
	}
	if mods != 0 {
		macos.CGEventSetFlags(ev, flags(mods))
	}
	q.post(ev)
	return nil
}
