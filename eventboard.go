package eventboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jpalmerr/eventboard/dashboard"
	"github.com/jpalmerr/eventboard/internal/metrics"
	"github.com/jpalmerr/eventboard/internal/server"
	"github.com/jpalmerr/eventboard/internal/store"
)

const defaultPort = 8080

// Board serves a live events dashboard fed by an [EventPoller].
//
// Board polls one [Source], keeps the rendered entries in memory and serves
// them over HTTP: the dashboard page, a JSON API, a Server-Sent Events
// stream, the poller's stats, a webhook receiver and Prometheus metrics. It
// is created using [New] with functional options and started with
// [Board.Start].
//
// The typical lifecycle is:
//
//	src, _ := eventboard.NewSource("http://localhost:3000")
//	eb, err := eventboard.New(eventboard.WithSource(src))
//	if err != nil {
//	    slog.Error("failed to create eventboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	eb.Start(ctx) // blocks until context cancelled
type Board struct {
	cfg      ebConfig
	source   Source
	logger   *slog.Logger
	registry *prometheus.Registry
}

// New creates a new [Board] with the given options.
//
// A source must be configured via [WithSource]. Other options have sensible
// defaults:
//   - Polling interval: 15 seconds
//   - Port: 8080
//   - Metrics: a private Prometheus registry
//
// Returns an error if no source is configured or if any option is invalid.
//
// Example:
//
//	eb, err := eventboard.New(
//	    eventboard.WithSource(src),
//	    eventboard.WithPollingInterval(30 * time.Second),
//	    eventboard.WithPort(9090),
//	)
func New(opts ...Option) (*Board, error) {
	cfg := ebConfig{
		pollingInterval: defaultPollingInterval,
		port:            defaultPort,
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.source == nil {
		return nil, errors.New("a source is required")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg.logger = logger

	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}

	return &Board{
		cfg:      cfg,
		source:   *cfg.source,
		logger:   logger,
		registry: cfg.registry,
	}, nil
}

// Start begins polling the source and serving the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The HTTP server starts on the configured port
//   - The source is polled immediately, then at the configured interval
//   - Failed cycles are logged and leave the dashboard unchanged
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start.
func (b *Board) Start(ctx context.Context) error {
	b.logger.Info("eventboard starting",
		"source", b.source.URL(),
		"variant", b.source.Variant().String(),
	)
	b.logger.Info("polling configured", "interval", b.cfg.pollingInterval.String())
	b.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", b.cfg.port))

	if ctx.Err() != nil {
		return nil
	}

	entries := store.NewMemoryStore()
	ep := newEventPoller(b.source, entries, &b.cfg)

	httpServer := server.NewServer(entries, server.Config{
		Port:        b.cfg.port,
		Title:       b.cfg.title,
		ContainerID: b.source.ContainerID(),
		ListLayout:  b.source.Variant().ListLayout(),
		Assets:      dashboard.Assets,
		Gatherer:    b.registry,
		Metrics:     metrics.New(b.registry),
		Stats: func() server.PollStats {
			return toPollStats(ep.Stats())
		},
		Logger: b.logger,
	})
	if err := httpServer.Start(ctx); err != nil {
		ep.Dispose()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	ep.Start(ctx)

	<-ctx.Done()
	ep.Dispose()
	b.logger.Info("eventboard stopped")
	return nil
}

// Source returns the polled source.
func (b *Board) Source() Source {
	return b.source
}

// Port returns the configured HTTP port for the dashboard server.
func (b *Board) Port() int {
	return b.cfg.port
}

// PollingInterval returns the configured interval between poll cycles.
func (b *Board) PollingInterval() time.Duration {
	return b.cfg.pollingInterval
}

// Registry returns the Prometheus registry served at /metrics.
func (b *Board) Registry() *prometheus.Registry {
	return b.registry
}

func toPollStats(s Stats) server.PollStats {
	out := server.PollStats{
		Cycles:    s.Cycles,
		Successes: s.Successes,
		Failures:  s.Failures,
		Skipped:   s.Skipped,
		Entries:   s.Entries,
	}
	if s.LastError != nil {
		msg := s.LastError.Error()
		out.LastError = &msg
	}
	if !s.LastSuccess.IsZero() {
		t := s.LastSuccess
		out.LastSuccess = &t
	}
	if !s.LastFailure.IsZero() {
		t := s.LastFailure
		out.LastFailure = &t
	}
	return out
}
