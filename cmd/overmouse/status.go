package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phinze/overmouse/internal/config"
	"github.com/phinze/overmouse/internal/permissions"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check config and accessibility permission",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStatus(cmd, permissions.System())
		},
	}
}

func printStatus(cmd *cobra.Command, perm permissions.Provider) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== overmouse Status ===")
	fmt.Fprintln(out)

	allOK := true

	// Config file
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n", configPath)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(out, "  Status: found")
	} else {
		fmt.Fprintln(out, "  Status: not found, using defaults")
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintf(out, "  Load error: %v\n", err)
		allOK = false
	}
	fmt.Fprintln(out)

	if cfg != nil {
		s := cfg.Settings
		fmt.Fprintf(out, "Interception: %s\n", onOff(s.Enabled))
		fmt.Fprintln(out, "Buttons:")
		if len(s.Mappings) == 0 {
			fmt.Fprintln(out, "  (none)")
		}
		for _, m := range s.Mappings {
			fmt.Fprintf(out, "  %-8s %-15s -> %s\n", m.Button, m.Click, m.Action)
		}
		fmt.Fprintf(out, "Scrolling: %s, speed %g, inertia %g, invert %s, precision %s\n",
			s.Scroll.Smoothness, s.Scroll.Speed, s.Scroll.Inertia, onOff(s.Scroll.Invert), onOff(s.Scroll.Precision))
		if s.Gestures.Enabled {
			fmt.Fprintf(out, "Gestures: %s, threshold %g\n", s.Gestures.Trigger, s.Gestures.Threshold)
		} else {
			fmt.Fprintln(out, "Gestures: off")
		}
		for _, w := range cfg.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Accessibility:")
	if perm.Granted() {
		fmt.Fprintln(out, "  Permission: granted")
	} else {
		fmt.Fprintln(out, "  Permission: NOT GRANTED")
		allOK = false
	}
	fmt.Fprintln(out)

	if allOK {
		fmt.Fprintln(out, "All checks passed.")
	} else {
		fmt.Fprintln(out, "Some checks failed. Run 'overmouse setup' to configure.")
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
