// Package main is the entry point for the eventboard CLI.
//
// eventboard can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	eventboard serve -c config.yaml    # Start the dashboard
//	eventboard watch -c config.yaml    # Render events in the terminal
//	eventboard validate -c config.yaml # Validate configuration
//	eventboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "eventboard",
	Short: "A live repository events board",
	Long: `eventboard polls a repository events feed and shows each event as a
line of human-readable text.

It fetches the feed at a fixed interval and renders the latest events in a
web dashboard (with Server-Sent Events for live updates) or in the terminal.

Quick start:
  1. Create a config file (eventboard.yaml)
  2. Run: eventboard serve -c eventboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  poll_interval: 15s
  source:
    url: http://localhost:3000
    variant: structured`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this eventboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "eventboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
