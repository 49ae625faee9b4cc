package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vmkit",
		Short: "View model lifecycle toolkit",
		Long: `vmkit manages view model lifecycles for Go applications.

View models track their computed values, subscriptions, and child
view models, and release all of them with a single Dispose call.
The CLI runs the companion inspector, which exposes the live view
model tree over HTTP and WebSocket along with Prometheus metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
