package macos

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

type (
	IOHIDDeviceRef  uintptr
	IOHIDManagerRef uintptr
	IOOptionBits    uint32
	IOReturn        int32
)

const (
	IOHIDOptionsTypeNone IOOptionBits = 0
	IOReturnSuccess      IOReturn     = 0
)

var (
	AXIsProcessTrusted            func() bool
	AXIsProcessTrustedWithOptions func(options CFDictionaryRef) bool

	IOHIDDeviceGetProperty                     func(device IOHIDDeviceRef, key CFStringRef) CFTypeRef
	IOHIDManagerClose                          func(manager IOHIDManagerRef, options IOOptionBits) IOReturn
	IOHIDManagerCreate                         func(allocator CFAllocatorRef, options IOOptionBits) IOHIDManagerRef
	IOHIDManagerOpen                           func(manager IOHIDManagerRef, options IOOptionBits) IOReturn
	IOHIDManagerSetDeviceMatching              func(manager IOHIDManagerRef, matching CFDictionaryRef)
	IOHIDManagerRegisterDeviceMatchingCallback func(manager IOHIDManagerRef, callback uintptr, context unsafe.Pointer)
	IOHIDManagerScheduleWithRunLoop            func(manager IOHIDManagerRef, runLoop CFRunLoopRef, runLoopMode CFStringRef)
)

var kAXTrustedCheckOptionPrompt uintptr

func init() {
	as, err := purego.Dlopen("/System/Library/Frameworks/ApplicationServices.framework/ApplicationServices", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}
	purego.RegisterLibFunc(&AXIsProcessTrusted, as, "AXIsProcessTrusted")
	purego.RegisterLibFunc(&AXIsProcessTrustedWithOptions, as, "AXIsProcessTrustedWithOptions")
	if kAXTrustedCheckOptionPrompt, err = purego.Dlsym(as, "kAXTrustedCheckOptionPrompt"); err != nil {
		panic(err)
	}

	iokit, err := purego.Dlopen("/System/Library/Frameworks/IOKit.framework/IOKit", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}
	purego.RegisterLibFunc(&IOHIDDeviceGetProperty, iokit, "IOHIDDeviceGetProperty")
	purego.RegisterLibFunc(&IOHIDManagerClose, iokit, "IOHIDManagerClose")
	purego.RegisterLibFunc(&IOHIDManagerCreate, iokit, "IOHIDManagerCreate")
	purego.RegisterLibFunc(&IOHIDManagerOpen, iokit, "IOHIDManagerOpen")
	purego.RegisterLibFunc(&IOHIDManagerSetDeviceMatching, iokit, "IOHIDManagerSetDeviceMatching")
	purego.RegisterLibFunc(&IOHIDManagerRegisterDeviceMatchingCallback, iokit, "IOHIDManagerRegisterDeviceMatchingCallback")
	purego.RegisterLibFunc(&IOHIDManagerScheduleWithRunLoop, iokit, "IOHIDManagerScheduleWithRunLoop")
}

// TrustedCheckOptionPrompt returns kAXTrustedCheckOptionPrompt.
func TrustedCheckOptionPrompt() CFStringRef {
	return **(**CFStringRef)(unsafe.Pointer(&kAXTrustedCheckOptionPrompt))
}

// DeviceIntProperty reads a numeric IOHIDDevice property such as
// "PrimaryUsagePage".
func DeviceIntProperty(device IOHIDDeviceRef, key string) (int32, bool) {
	skey := String(key)
	if skey == 0 {
		return 0, false
	}
	defer CFRelease(CFTypeRef(skey))

	prop := IOHIDDeviceGetProperty(device, skey)
	if prop == 0 {
		return 0, false
	}

	var v int32
	if !CFNumberGetValue(CFNumberRef(prop), KCFNumberSInt32Type, unsafe.Pointer(&v)) {
		return 0, false
	}
	return v, true
}
