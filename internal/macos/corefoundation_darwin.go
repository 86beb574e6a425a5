package macos

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

type (
	CFAllocatorRef  uintptr
	CFDictionaryRef uintptr
	CFIndex         int64
	CFMachPortRef   uintptr
	CFNumberRef     uintptr
	CFRunLoopRef    uintptr
	CFRunLoopSource uintptr
	CFStringRef     uintptr
	CFTypeRef       uintptr
	CFBooleanRef    uintptr

	CFStringEncoding uint32
)

const (
	KCFAllocatorDefault   CFAllocatorRef   = 0
	KCFNumberSInt16Type   CFIndex          = 2
	KCFNumberSInt32Type   CFIndex          = 3
	KCFStringEncodingUTF8 CFStringEncoding = 0x08000100
)

var (
	CFNumberCreate          func(alloc CFAllocatorRef, theType CFIndex, valuePtr unsafe.Pointer) CFNumberRef
	CFNumberGetValue        func(number CFNumberRef, theType CFIndex, valuePtr unsafe.Pointer) bool
	CFRelease               func(cf CFTypeRef)
	CFRunLoopGetCurrent     func() CFRunLoopRef
	CFRunLoopRun            func()
	CFRunLoopStop           func(rl CFRunLoopRef)
	CFRunLoopAddSource      func(rl CFRunLoopRef, source CFRunLoopSource, mode CFStringRef)
	CFRunLoopRemoveSource   func(rl CFRunLoopRef, source CFRunLoopSource, mode CFStringRef)
	CFMachPortCreateRunLoop func(alloc CFAllocatorRef, port CFMachPortRef, order CFIndex) CFRunLoopSource
	CFMachPortInvalidate    func(port CFMachPortRef)
	CFStringCreateWithBytes func(alloc CFAllocatorRef, bytes []byte, numBytes CFIndex, encoding CFStringEncoding, isExternalRepresentation bool) CFStringRef
	CFDictionaryCreate      func(alloc CFAllocatorRef, keys, values unsafe.Pointer, numValues CFIndex, keyCallbacks, valueCallbacks uintptr) CFDictionaryRef
)

var (
	kCFRunLoopDefaultMode           uintptr
	kCFRunLoopCommonModes           uintptr
	kCFBooleanTrue                  uintptr
	kCFTypeDictionaryKeyCallBacks   uintptr
	kCFTypeDictionaryValueCallBacks uintptr
)

func init() {
	cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}

	purego.RegisterLibFunc(&CFNumberCreate, cf, "CFNumberCreate")
	purego.RegisterLibFunc(&CFNumberGetValue, cf, "CFNumberGetValue")
	purego.RegisterLibFunc(&CFRelease, cf, "CFRelease")
	purego.RegisterLibFunc(&CFRunLoopGetCurrent, cf, "CFRunLoopGetCurrent")
	purego.RegisterLibFunc(&CFRunLoopRun, cf, "CFRunLoopRun")
	purego.RegisterLibFunc(&CFRunLoopStop, cf, "CFRunLoopStop")
	purego.RegisterLibFunc(&CFRunLoopAddSource, cf, "CFRunLoopAddSource")
	purego.RegisterLibFunc(&CFRunLoopRemoveSource, cf, "CFRunLoopRemoveSource")
	purego.RegisterLibFunc(&CFMachPortCreateRunLoop, cf, "CFMachPortCreateRunLoopSource")
	purego.RegisterLibFunc(&CFMachPortInvalidate, cf, "CFMachPortInvalidate")
	purego.RegisterLibFunc(&CFStringCreateWithBytes, cf, "CFStringCreateWithBytes")
	purego.RegisterLibFunc(&CFDictionaryCreate, cf, "CFDictionaryCreate")

	for _, sym := range []struct {
		name string
		dst  *uintptr
	}{
		{"kCFRunLoopDefaultMode", &kCFRunLoopDefaultMode},
		{"kCFRunLoopCommonModes", &kCFRunLoopCommonModes},
		{"kCFBooleanTrue", &kCFBooleanTrue},
		{"kCFTypeDictionaryKeyCallBacks", &kCFTypeDictionaryKeyCallBacks},
		{"kCFTypeDictionaryValueCallBacks", &kCFTypeDictionaryValueCallBacks},
	} {
		if *sym.dst, err = purego.Dlsym(cf, sym.name); err != nil {
			panic(err)
		}
	}
}

// DefaultMode returns kCFRunLoopDefaultMode.
func DefaultMode() CFStringRef {
	return **(**CFStringRef)(unsafe.Pointer(&kCFRunLoopDefaultMode))
}

// CommonModes returns kCFRunLoopCommonModes.
func CommonModes() CFStringRef {
	return **(**CFStringRef)(unsafe.Pointer(&kCFRunLoopCommonModes))
}

// BooleanTrue returns kCFBooleanTrue.
func BooleanTrue() CFBooleanRef {
	return **(**CFBooleanRef)(unsafe.Pointer(&kCFBooleanTrue))
}

// TypeDictionaryCallBacks returns the addresses of the standard key and
// value callback structs. The structs themselves are passed by pointer.
func TypeDictionaryCallBacks() (keys, values uintptr) {
	return kCFTypeDictionaryKeyCallBacks, kCFTypeDictionaryValueCallBacks
}

// String creates a CFString the caller must CFRelease.
func String(s string) CFStringRef {
	b := []byte(s)
	return CFStringCreateWithBytes(KCFAllocatorDefault, b, CFIndex(len(b)), KCFStringEncodingUTF8, false)
}

// Int32 creates a CFNumber the caller must CFRelease.
func Int32(v int32) CFNumberRef {
	return CFNumberCreate(KCFAllocatorDefault, KCFNumberSInt32Type, unsafe.Pointer(&v))
}
