package macos

import (
	"github.com/ebitengine/purego"
)

type (
	CGEventRef       uintptr
	CGEventSourceRef uintptr
	CGEventTapProxy  uintptr
	CGEventType      uint32
	CGEventField     uint32
	CGEventFlags     uint64
	CGEventMask      uint64
	CGKeyCode        uint16
	CGMouseButton    uint32
	CGScrollUnit     uint32
)

// CGPoint is passed and returned by value.
type CGPoint struct {
	X, Y float64
}

const (
	LeftMouseDown     CGEventType = 1
	LeftMouseUp       CGEventType = 2
	RightMouseDown    CGEventType = 3
	RightMouseUp      CGEventType = 4
	LeftMouseDragged  CGEventType = 6
	RightMouseDragged CGEventType = 7
	ScrollWheel       CGEventType = 22
	OtherMouseDown    CGEventType = 25
	OtherMouseUp      CGEventType = 26
	OtherMouseDragged CGEventType = 27

	TapDisabledByTimeout   CGEventType = 0xFFFFFFFE
	TapDisabledByUserInput CGEventType = 0xFFFFFFFF
)

const (
	MouseEventButtonNumber       CGEventField = 3
	MouseEventDeltaX             CGEventField = 4
	MouseEventDeltaY             CGEventField = 5
	ScrollWheelDeltaAxis1        CGEventField = 11
	ScrollWheelDeltaAxis2        CGEventField = 12
	EventSourceUserData          CGEventField = 42
	ScrollWheelIsContinuous      CGEventField = 88
	ScrollWheelFixedPtDeltaAxis1 CGEventField = 93
	ScrollWheelFixedPtDeltaAxis2 CGEventField = 94
	ScrollWheelPointDeltaAxis1   CGEventField = 96
	ScrollWheelPointDeltaAxis2   CGEventField = 97
)

const (
	FlagShift     CGEventFlags = 0x00020000
	FlagControl   CGEventFlags = 0x00040000
	FlagAlternate CGEventFlags = 0x00080000
	FlagCommand   CGEventFlags = 0x00100000
)

const (
	SessionEventTap    uint32 = 1
	HIDEventTap        uint32 = 0
	HeadInsertEventTap uint32 = 0
	TapOptionDefault   uint32 = 0

	SourceStateHIDSystem int32 = 1

	MouseButtonCenter CGMouseButton = 2

	ScrollUnitPixel CGScrollUnit = 0
	ScrollUnitLine  CGScrollUnit = 1
)

// MaskBit returns the event mask bit for t.
func MaskBit(t CGEventType) CGEventMask {
	return 1 << CGEventMask(t)
}

var (
	CGEventTapCreate               func(tap, place, options uint32, mask CGEventMask, callback uintptr, userInfo uintptr) CFMachPortRef
	CGEventTapEnable               func(tap CFMachPortRef, enable bool)
	CGEventTapIsEnabled            func(tap CFMachPortRef) bool
	CGEventGetIntegerValueField    func(ev CGEventRef, field CGEventField) int64
	CGEventSetIntegerValueField    func(ev CGEventRef, field CGEventField, value int64)
	CGEventGetDoubleValueField     func(ev CGEventRef, field CGEventField) float64
	CGEventSetDoubleValueField     func(ev CGEventRef, field CGEventField, value float64)
	CGEventGetFlags                func(ev CGEventRef) CGEventFlags
	CGEventSetFlags                func(ev CGEventRef, flags CGEventFlags)
	CGEventGetLocation             func(ev CGEventRef) CGPoint
	CGEventCreate                  func(source CGEventSourceRef) CGEventRef
	CGEventCreateKeyboardEvent     func(source CGEventSourceRef, key CGKeyCode, down bool) CGEventRef
	CGEventCreateMouseEvent        func(source CGEventSourceRef, typ CGEventType, pos CGPoint, button CGMouseButton) CGEventRef
	CGEventCreateScrollWheelEvent2 func(source CGEventSourceRef, units CGScrollUnit, wheelCount uint32, wheel1, wheel2, wheel3 int32) CGEventRef
	CGEventPost                    func(tap uint32, ev CGEventRef)
	CGEventSourceCreate            func(state int32) CGEventSourceRef
)

func init() {
	cg, err := purego.Dlopen("/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}

	purego.RegisterLibFunc(&CGEventTapCreate, cg, "CGEventTapCreate")
	purego.RegisterLibFunc(&CGEventTapEnable, cg, "CGEventTapEnable")
	purego.RegisterLibFunc(&CGEventTapIsEnabled, cg, "CGEventTapIsEnabled")
	purego.RegisterLibFunc(&CGEventGetIntegerValueField, cg, "CGEventGetIntegerValueField")
	purego.RegisterLibFunc(&CGEventSetIntegerValueField, cg, "CGEventSetIntegerValueField")
	purego.RegisterLibFunc(&CGEventGetDoubleValueField, cg, "CGEventGetDoubleValueField")
	purego.RegisterLibFunc(&CGEventSetDoubleValueField, cg, "CGEventSetDoubleValueField")
	purego.RegisterLibFunc(&CGEventGetFlags, cg, "CGEventGetFlags")
	purego.RegisterLibFunc(&CGEventSetFlags, cg, "CGEventSetFlags")
	purego.RegisterLibFunc(&CGEventGetLocation, cg, "CGEventGetLocation")
	purego.RegisterLibFunc(&CGEventCreate, cg, "CGEventCreate")
	purego.RegisterLibFunc(&CGEventCreateKeyboardEvent, cg, "CGEventCreateKeyboardEvent")
	purego.RegisterLibFunc(&CGEventCreateMouseEvent, cg, "CGEventCreateMouseEvent")
	purego.RegisterLibFunc(&CGEventCreateScrollWheelEvent2, cg, "CGEventCreateScrollWheelEvent2")
	purego.RegisterLibFunc(&CGEventPost, cg, "CGEventPost")
	purego.RegisterLibFunc(&CGEventSourceCreate, cg, "CGEventSourceCreate")
}
