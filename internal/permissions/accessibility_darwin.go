package permissions

import (
	"unsafe"

	"github.com/phinze/overmouse/internal/macos"
)

type accessibility struct{}

// System returns the Provider backed by the accessibility APIs.
func System() Provider { return accessibility{} }

func (accessibility) Granted() bool {
	return macos.AXIsProcessTrusted()
}

func (accessibility) Request() bool {
	keys := []uintptr{uintptr(macos.TrustedCheckOptionPrompt())}
	values := []uintptr{uintptr(macos.BooleanTrue())}
	kcb, vcb := macos.TypeDictionaryCallBacks()

	opts := macos.CFDictionaryCreate(macos.KCFAllocatorDefault,
		unsafe.Pointer(&keys[0]), unsafe.Pointer(&values[0]), 1, kcb, vcb)
	if opts == 0 {
		return macos.AXIsProcessTrusted()
	}
	defer macos.CFRelease(macos.CFTypeRef(opts))
	return macos.AXIsProcessTrustedWithOptions(opts)
}
