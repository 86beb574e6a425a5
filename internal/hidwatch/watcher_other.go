//go:build !darwin

package hidwatch

import (
	"context"
	"log/slog"
)

// Watch returns a channel that never fires on platforms without IOKit.
func Watch(_ context.Context, _ *slog.Logger) <-chan struct{} {
	return make(chan struct{})
}
