package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phinze/overmouse/internal/config"
	"github.com/phinze/overmouse/internal/coordinator"
	"github.com/phinze/overmouse/internal/executor"
	"github.com/phinze/overmouse/internal/hidwatch"
	"github.com/phinze/overmouse/internal/hook"
	"github.com/phinze/overmouse/internal/logging"
	"github.com/phinze/overmouse/internal/permissions"
	"github.com/phinze/overmouse/internal/tray"
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-tray", false, "run without the menu-bar item")
	cmd.Flags().String("log-level", "", "log level (debug, info, warn, error); overrides the config file")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	slog.SetDefault(log)
	log.Info("starting overmouse", "version", version, "config", cfg.Path)

	exec, err := executor.New(log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	coord := coordinator.New(cfg, coordinator.Deps{
		Tap:         hook.NewTap(),
		Executor:    exec,
		Permissions: permissions.System(),
		Wake:        watchWake(ctx, log),
		Devices:     hidwatch.Watch(ctx, log),
	}, log)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				log.Info("received SIGHUP, reloading configuration")
				coord.Reload()
			}
		}
	}()

	coord.Start(ctx)

	if noTray, _ := cmd.Flags().GetBool("no-tray"); noTray {
		return coord.Run(ctx)
	}

	t := tray.New(coord, log)
	coord.OnChange(t.Refresh)

	done := make(chan error, 1)
	go func() {
		done <- coord.Run(ctx)
		t.Stop()
	}()

	// Run the menu bar on the main thread (required for macOS)
	t.Run()
	cancel()
	err = <-done
	log.Info("overmouse stopped")
	return err
}
