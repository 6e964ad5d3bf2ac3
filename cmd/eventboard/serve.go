package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/eventboard"
	"github.com/jpalmerr/eventboard/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig reads the --config flag and builds the logger and source shared
// by serve and watch.
func loadConfig(cmd *cobra.Command) (*config.Config, eventboard.Source, *slog.Logger, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, eventboard.Source{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// validated by config.Parse
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := newLogger(os.Stderr, level)

	src, err := config.BuildSource(cfg)
	if err != nil {
		return nil, eventboard.Source{}, nil, fmt.Errorf("failed to build source: %w", err)
	}

	return cfg, src, logger, nil
}

// serveCmd starts the eventboard dashboard server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the eventboard dashboard server.

The server will:
  - Load configuration from the specified YAML file
  - Poll the events feed immediately and then every poll_interval
  - Serve the dashboard UI, JSON API, webhook receiver and metrics on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  eventboard serve -c config.yaml
  eventboard serve --config /etc/eventboard/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, src, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger.Info("config loaded",
		"source", src.URL(),
		"variant", src.Variant().String(),
	)
	logger.Info("starting server",
		"port", cfg.Port,
		"poll_interval", cfg.PollInterval.Duration().String(),
	)

	opts := append(config.BuildOptions(cfg, logger),
		eventboard.WithSource(src),
		eventboard.WithPort(cfg.Port),
	)

	eb, err := eventboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create eventboard: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- eb.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
