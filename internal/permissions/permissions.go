// Package permissions reports and requests the accessibility trust the
// capture hook depends on.
package permissions

import (
	"context"
	"time"
)

// Provider reports and requests permission for the global event tap.
type Provider interface {
	// Granted reports whether the process is currently trusted.
	Granted() bool
	// Request asks the OS to prompt the user and reports the current state.
	Request() bool
}

// PollInterval is how often WaitGranted re-checks.
const PollInterval = time.Second

// WaitGranted blocks until p reports permission or ctx ends.
func WaitGranted(ctx context.Context, p Provider, interval time.Duration) error {
	if p.Granted() {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.Granted() {
				return nil
			}
		}
	}
}
