package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func init() {
	// The menu bar and the event tap's callbacks expect the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "overmouse",
		Short:         "Remap mouse buttons, add gestures and smooth scrolling on macOS",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDaemon,
	}
	addRunFlags(root)

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the interceptor in the foreground (default)",
		RunE:  runDaemon,
	}
	addRunFlags(run)

	root.AddCommand(run, newSetupCmd(), newStatusCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "overmouse", version)
		},
	})
	return root
}
