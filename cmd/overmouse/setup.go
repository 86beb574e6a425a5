package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phinze/overmouse/internal/config"
	"github.com/phinze/overmouse/internal/event"
	"github.com/phinze/overmouse/internal/permissions"
	"github.com/phinze/overmouse/internal/settings"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactive setup: write config and request accessibility access",
		RunE:  runSetup,
	}
	cmd.Flags().Bool("skip-permissions", false, "do not request accessibility access")
	return cmd
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== overmouse Setup ===")
	fmt.Fprintln(out)

	// Load existing config as defaults
	f := config.DefaultFile()
	if existing, err := config.Load(); err == nil {
		f = config.FromSnapshot(existing.Settings)
		f.Log = existing.Log
	} else {
		fmt.Fprintf(out, "Existing config unreadable (%v), starting from defaults\n\n", err)
	}

	fmt.Fprintln(out, "-- Gestures --")
	f.Gestures.Enabled = promptBool(reader, out, "Enable gestures", f.Gestures.Enabled)
	if f.Gestures.Enabled {
		f.Gestures.Trigger = promptButton(reader, out, "Gesture button", f.Gestures.Trigger)
		f.Gestures.Threshold = promptFloat(reader, out, "Swipe distance", f.Gestures.Threshold)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "-- Scrolling --")
	f.Scroll.Smoothness = promptSmoothness(reader, out, "Smoothness (off, regular, high)", f.Scroll.Smoothness)
	f.Scroll.Speed = promptFloat(reader, out, "Speed", f.Scroll.Speed)
	f.Scroll.Invert = promptBool(reader, out, "Invert direction", f.Scroll.Invert)
	fmt.Fprintln(out)

	// Validate before writing so setup never leaves an unloadable file
	if _, _, err := f.Snapshot(); err != nil {
		return err
	}
	if err := config.WriteConfigFile(f); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Fprintf(out, "Config written to %s\n", config.DefaultConfigPath())

	if skip, _ := cmd.Flags().GetBool("skip-permissions"); !skip {
		if permissions.System().Request() {
			fmt.Fprintln(out, "Accessibility access: granted")
		} else {
			fmt.Fprintln(out, "Accessibility access: requested; approve overmouse in System Settings > Privacy & Security > Accessibility")
		}
	}
	fmt.Fprintln(out, "Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, out io.Writer, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Fprintf(out, "  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

func promptBool(reader *bufio.Reader, out io.Writer, label string, def bool) bool {
	d := "n"
	if def {
		d = "y"
	}
	for {
		switch strings.ToLower(prompt(reader, out, label+" (y/n)", d)) {
		case "y", "yes", "true":
			return true
		case "n", "no", "false":
			return false
		}
		fmt.Fprintln(out, "  please answer y or n")
		if atEOF(reader) {
			return def
		}
	}
}

func promptFloat(reader *bufio.Reader, out io.Writer, label string, def float64) float64 {
	for {
		s := prompt(reader, out, label, strconv.FormatFloat(def, 'g', -1, 64))
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return v
		}
		fmt.Fprintf(out, "  %q is not a number\n", s)
		if atEOF(reader) {
			return def
		}
	}
}

func promptButton(reader *bufio.Reader, out io.Writer, label string, def event.Button) event.Button {
	for {
		b, err := event.ParseButton(prompt(reader, out, label+" (middle, button4, button5)", def.String()))
		if err == nil {
			return b
		}
		fmt.Fprintf(out, "  %v\n", err)
		if atEOF(reader) {
			return def
		}
	}
}

func promptSmoothness(reader *bufio.Reader, out io.Writer, label string, def settings.Smoothness) settings.Smoothness {
	for {
		var s settings.Smoothness
		err := s.UnmarshalText([]byte(prompt(reader, out, label, def.String())))
		if err == nil {
			return s
		}
		fmt.Fprintf(out, "  %v\n", err)
		if atEOF(reader) {
			return def
		}
	}
}

func atEOF(reader *bufio.Reader) bool {
	_, err := reader.Peek(1)
	return err != nil
}
