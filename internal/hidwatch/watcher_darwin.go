package hidwatch

import (
	"context"
	"log/slog"
	"runtime"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/phinze/overmouse/internal/macos"
)

// watcherCtx holds the state reached from the IOKit callback. The
// package-level reference keeps it alive while the callback is registered.
// Only one watcher is supported at a time.
type watcherCtx struct {
	gate *gate
	log  *slog.Logger
}

var callbackCtx *watcherCtx

var deviceMatchingCallbackPtr = purego.NewCallback(deviceMatchingCallback)

func deviceMatchingCallback(_ unsafe.Pointer, _ macos.IOReturn, _ uintptr, device macos.IOHIDDeviceRef) {
	wctx := callbackCtx
	if wctx == nil {
		return
	}

	page, ok := macos.DeviceIntProperty(device, "PrimaryUsagePage")
	if !ok {
		return
	}
	usage, ok := macos.DeviceIntProperty(device, "PrimaryUsage")
	if !ok || !IsPointer(page, usage) {
		return
	}

	if wctx.gate.arrived(time.Now()) {
		wctx.log.Info("pointer device attached")
	}
}

// Watch returns a channel that receives a signal each time a pointer
// device appears. Devices present at startup are not reported. The watcher
// stops when ctx is cancelled.
func Watch(ctx context.Context, log *slog.Logger) <-chan struct{} {
	g := newGate(time.Now())
	callbackCtx = &watcherCtx{gate: g, log: log}

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		mgr := macos.IOHIDManagerCreate(macos.KCFAllocatorDefault, macos.IOHIDOptionsTypeNone)
		if rv := macos.IOHIDManagerOpen(mgr, macos.IOHIDOptionsTypeNone); rv != macos.IOReturnSuccess {
			log.Error("failed to open IOHIDManager", "ret", rv)
			return
		}

		// Match all HID devices; pointer devices are filtered in the callback.
		macos.IOHIDManagerSetDeviceMatching(mgr, 0)

		rl := macos.CFRunLoopGetCurrent()
		macos.IOHIDManagerScheduleWithRunLoop(mgr, rl, macos.DefaultMode())
		macos.IOHIDManagerRegisterDeviceMatchingCallback(mgr, deviceMatchingCallbackPtr, nil)

		go func() {
			<-ctx.Done()
			macos.CFRunLoopStop(rl)
		}()

		log.Debug("listening for pointer device arrivals")
		macos.CFRunLoopRun()

		macos.IOHIDManagerClose(mgr, macos.IOHIDOptionsTypeNone)
		macos.CFRelease(macos.CFTypeRef(mgr))
		callbackCtx = nil
		log.Debug("pointer device watcher stopped")
	}()

	return g.ch
}
