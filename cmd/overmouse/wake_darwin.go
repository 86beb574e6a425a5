package main

import (
	"context"
	"log/slog"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// watchWake signals after each system wake. Taps are frequently disabled
// across sleep, so the pipeline restarts from a clean state.
func watchWake(ctx context.Context, log *slog.Logger) <-chan struct{} {
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case activity, ok := <-sleepCh:
				if !ok {
					return
				}
				if activity.Type != notifier.Awake {
					log.Debug("system sleeping")
					continue
				}
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()
	return wakeCh
}
