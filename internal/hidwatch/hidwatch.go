// Package hidwatch signals when a pointer device is attached.
package hidwatch

import (
	"sync"
	"time"
)

// HID usage identifying a mouse on the generic desktop page.
const (
	UsagePageGenericDesktop = 0x01
	UsageMouse              = 0x02
)

// settleWindow covers the burst of matches IOKit reports for devices that
// were already attached when the watcher started.
const settleWindow = time.Second

// IsPointer reports whether a device's primary usage is a mouse.
func IsPointer(page, usage int32) bool {
	return page == UsagePageGenericDesktop && usage == UsageMouse
}

// gate forwards arrivals on a coalescing channel once the initial
// enumeration has settled.
type gate struct {
	mu    sync.Mutex
	ready time.Time
	ch    chan struct{}
}

func newGate(start time.Time) *gate {
	return &gate{ready: start.Add(settleWindow), ch: make(chan struct{}, 1)}
}

// arrived records a pointer-device arrival at now and reports whether it
// was forwarded.
func (g *gate) arrived(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if now.Before(g.ready) {
		return false
	}
	select {
	case g.ch <- struct{}{}:
	default:
	}
	return true
}
