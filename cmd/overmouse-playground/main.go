package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phinze/overmouse/internal/config"
	"github.com/phinze/overmouse/internal/coordinator"
	"github.com/phinze/overmouse/internal/logging"
	"github.com/phinze/overmouse/internal/playground"
	"github.com/phinze/overmouse/internal/playground/window"
)

func main() {
	level := flag.String("log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}
	if *level != "" {
		cfg.Log.Level = *level
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		slog.Error("configuring logging", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tap := playground.NewTap()
	feed := playground.NewFeed()
	coord := coordinator.New(cfg, coordinator.Deps{Tap: tap, Executor: feed}, log)
	coord.Start(ctx)

	done := make(chan struct{})
	go func() {
		coord.Run(ctx)
		close(done)
	}()

	// Run GUI on main thread (required for macOS)
	if err := window.New(tap, feed, coord, log).Run(ctx); err != nil {
		log.Error("playground window", "err", err)
	}
	coord.Quit()
	<-done
}
