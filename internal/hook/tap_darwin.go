package hook

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/purego"
	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/macos"
)

var tapMask = macos.MaskBit(macos.LeftMouseDown) |
	macos.MaskBit(macos.LeftMouseUp) |
	macos.MaskBit(macos.RightMouseDown) |
	macos.MaskBit(macos.RightMouseUp) |
	macos.MaskBit(macos.LeftMouseDragged) |
	macos.MaskBit(macos.RightMouseDragged) |
	macos.MaskBit(macos.OtherMouseDown) |
	macos.MaskBit(macos.OtherMouseUp) |
	macos.MaskBit(macos.OtherMouseDragged) |
	macos.MaskBit(macos.ScrollWheel)

// QuartzTap is a CGEventTap installed at the session level. Only one may be
// installed at a time; the tap callback is a single process-wide trampoline.
type QuartzTap struct {
	mu       sync.Mutex
	port     macos.CFMachPortRef
	runLoop  macos.CFRunLoopRef
	done     chan struct{}
	handler  Handler
	disabled func()

	// quant is used only on the run loop thread.
	quant event.Quantizer
}

// NewTap returns the platform tap.
func NewTap() Tap {
	return &QuartzTap{}
}

var (
	activeTap   atomic.Pointer[QuartzTap]
	tapCallback = purego.NewCallback(tapTrampoline)
)

// Install creates the tap on a dedicated OS thread running its own run loop.
func (t *QuartzTap) Install(h Handler, disabled func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port != 0 {
		return nil
	}

	t.handler = h
	t.disabled = disabled
	t.quant = event.Quantizer{}
	activeTap.Store(t)

	ready := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)

		port := macos.CGEventTapCreate(macos.SessionEventTap, macos.HeadInsertEventTap, macos.TapOptionDefault, tapMask, tapCallback, 0)
		if port == 0 {
			ready <- ErrPermissionDenied
			return
		}

		src := macos.CFMachPortCreateRunLoop(macos.KCFAllocatorDefault, port, 0)
		rl := macos.CFRunLoopGetCurrent()
		macos.CFRunLoopAddSource(rl, src, macos.CommonModes())
		macos.CGEventTapEnable(port, true)

		t.port = port
		t.runLoop = rl
		ready <- nil

		macos.CFRunLoopRun()

		macos.CFRunLoopRemoveSource(rl, src, macos.CommonModes())
		macos.CFMachPortInvalidate(port)
		macos.CFRelease(macos.CFTypeRef(src))
		macos.CFRelease(macos.CFTypeRef(port))
	}()

	if err := <-ready; err != nil {
		activeTap.CompareAndSwap(t, nil)
		return err
	}
	t.done = done
	return nil
}

// Enabled reports whether the tap is installed and enabled.
func (t *QuartzTap) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != 0 && macos.CGEventTapIsEnabled(t.port)
}

// Enable re-enables the tap after the system switched it off.
func (t *QuartzTap) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port != 0 {
		macos.CGEventTapEnable(t.port, true)
	}
}

// Remove disables the tap, stops its run loop and waits for teardown.
func (t *QuartzTap) Remove() {
	t.mu.Lock()
	port, rl, done := t.port, t.runLoop, t.done
	t.port, t.runLoop, t.done = 0, 0, nil
	t.mu.Unlock()

	if port == 0 {
		return
	}
	activeTap.CompareAndSwap(t, nil)
	macos.CGEventTapEnable(port, false)
	macos.CFRunLoopStop(rl)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func tapTrampoline(proxy, typ, ev, refcon uintptr) uintptr {
	t := activeTap.Load()
	if t == nil {
		return ev
	}
	et := macos.CGEventType(uint32(typ))
	ref := macos.CGEventRef(ev)

	switch et {
	case macos.TapDisabledByTimeout, macos.TapDisabledByUserInput:
		if t.disabled != nil {
			t.disabled()
		}
		return ev
	}

	if macos.CGEventGetIntegerValueField(ref, macos.EventSourceUserData) == SyntheticMarker {
		return ev
	}

	e, ok := translate(et, ref)
	if !ok {
		return ev
	}

	switch t.handler(&e) {
	case event.Swallow:
		return 0
	case event.Modify:
		writeScroll(ref, t.quant.Step(e.Scroll))
	}
	return ev
}

func translate(et macos.CGEventType, ref macos.CGEventRef) (event.Event, bool) {
	e := event.Event{
		Modifiers: modifiers(macos.CGEventGetFlags(ref)),
		Time:      time.Now(),
	}

	switch et {
	case macos.LeftMouseDown, macos.RightMouseDown, macos.OtherMouseDown:
		e.Kind = event.ButtonDown
	case macos.LeftMouseUp, macos.RightMouseUp, macos.OtherMouseUp:
		e.Kind = event.ButtonUp
	case macos.LeftMouseDragged, macos.RightMouseDragged, macos.OtherMouseDragged:
		e.Kind = event.Dragged
		e.DX = float64(macos.CGEventGetIntegerValueField(ref, macos.MouseEventDeltaX))
		e.DY = float64(macos.CGEventGetIntegerValueField(ref, macos.MouseEventDeltaY))
	case macos.ScrollWheel:
		e.Kind = event.Scroll
		e.Scroll = event.ScrollDelta{
			Units: event.Lines,
			DY:    macos.CGEventGetDoubleValueField(ref, macos.ScrollWheelFixedPtDeltaAxis1),
			DX:    macos.CGEventGetDoubleValueField(ref, macos.ScrollWheelFixedPtDeltaAxis2),
		}
		return e, true
	default:
		return e, false
	}

	e.Button = event.Button(macos.CGEventGetIntegerValueField(ref, macos.MouseEventButtonNumber))
	return e, true
}

// writeScroll expects whole, clamped deltas from a Quantizer.
func writeScroll(ref macos.CGEventRef, d event.ScrollDelta) {
	if d.Units == event.Pixels {
		macos.CGEventSetIntegerValueField(ref, macos.ScrollWheelIsContinuous, 1)
		macos.CGEventSetIntegerValueField(ref, macos.ScrollWheelPointDeltaAxis1, int64(d.DY))
		macos.CGEventSetIntegerValueField(ref, macos.ScrollWheelPointDeltaAxis2, int64(d.DX))
		return
	}
	macos.CGEventSetIntegerValueField(ref, macos.ScrollWheelIsContinuous, 0)
	macos.CGEventSetIntegerValueField(ref, macos.ScrollWheelDeltaAxis1, int64(d.DY))
	macos.CGEventSetIntegerValueField(ref, macos.ScrollWheelDeltaAxis2, int64(d.DX))
}

func modifiers(f macos.CGEventFlags) event.Modifiers {
	var m event.Modifiers
	if f&macos.FlagShift != 0 {
		m |= event.Shift
	}
	if f&macos.FlagControl != 0 {
		m |= event.Control
	}
	if f&macos.FlagAlternate != 0 {
		m |= event.Option
	}
	if f&macos.FlagCommand != 0 {
		m |= event.Command
	}
	return m
}
