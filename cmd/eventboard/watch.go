package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/eventboard"
	"github.com/jpalmerr/eventboard/config"
	"github.com/jpalmerr/eventboard/internal/terminal"
)

// watchCmd renders the feed in the terminal instead of serving a dashboard.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Render events in the terminal",
	Long: `Poll the events feed and redraw the latest events in the terminal.

Logs go to stderr, events to stdout. Runs until interrupted (Ctrl+C) or
receives SIGTERM.

Example:
  eventboard watch -c config.yaml
  eventboard watch -c config.yaml --no-clear > events.log`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	watchCmd.Flags().Bool("no-clear", false, "append each redraw instead of clearing the screen")
	_ = watchCmd.MarkFlagRequired("config")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, src, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	noClear, _ := cmd.Flags().GetBool("no-clear")

	display := terminal.New(cmd.OutOrStdout(),
		terminal.WithTitle(cfg.Title),
		terminal.WithListLayout(src.Variant().ListLayout()),
		terminal.WithClearScreen(!noClear),
	)

	ep, err := eventboard.NewEventPoller(src, display, config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create poller: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ep.Start(ctx)
	<-ctx.Done()
	ep.Dispose()

	stats := ep.Stats()
	logger.Info("watch stopped",
		"cycles", stats.Cycles,
		"failures", stats.Failures,
		"skipped", stats.Skipped,
	)
	return nil
}
