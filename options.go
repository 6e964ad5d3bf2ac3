package eventboard

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ebConfig holds mutable state during Board and EventPoller construction.
type ebConfig struct {
	title           string
	source          *Source
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	formatter       Formatter
	renderCallbacks []func(Snapshot)
	registry        *prometheus.Registry
}

// Option is a function that configures a [Board] or an [EventPoller] during
// construction.
//
// Option implements the functional options pattern. Options return an error
// if validation fails. [WithSource], [WithPort] and [WithTitle] only apply
// to [New]; [NewEventPoller] ignores them.
type Option func(*ebConfig) error

// WithSource sets the events [Source] polled by the board. Required by [New].
//
// Example:
//
//	src, _ := eventboard.NewSource("http://localhost:3000")
//	eb, err := eventboard.New(eventboard.WithSource(src))
func WithSource(src Source) Option {
	return func(cfg *ebConfig) error {
		if src.baseURL == "" {
			return errors.New("source must be created with NewSource")
		}
		cfg.source = &src
		return nil
	}
}

// WithPollingInterval sets the fixed delay between poll cycles.
//
// Defaults to 15 seconds if not specified. There is no jitter or backoff: a
// failed cycle is simply retried at the next tick.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *ebConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *ebConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger].
//
// Failed poll cycles are logged at Error level, successful ones at Debug.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *ebConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithFormatter replaces [DefaultFormatter].
//
// Example:
//
//	eventboard.WithFormatter(func(r eventboard.Record) string {
//	    if e, ok := r.(eventboard.StructuredEvent); ok {
//	        return strings.ToUpper(string(e.Type)) + " by " + e.Author
//	    }
//	    return eventboard.DefaultFormatter(r)
//	})
//
// Nil formatters are silently ignored.
func WithFormatter(f Formatter) Option {
	return func(cfg *ebConfig) error {
		if f == nil {
			return nil
		}
		cfg.formatter = f
		return nil
	}
}

// WithRenderCallback registers a function to be called after every
// successful render.
//
// The callback receives the [Snapshot] just written to the display
// container. Failed cycles do not invoke callbacks.
//
// Multiple callbacks may be registered; they execute in registration order,
// synchronously on the poller goroutine, so they must not block. Panics
// within callbacks are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithRenderCallback(cb func(Snapshot)) Option {
	return func(cfg *ebConfig) error {
		if cb == nil {
			return nil
		}
		cfg.renderCallbacks = append(cfg.renderCallbacks, cb)
		return nil
	}
}

// WithMetricsRegistry registers poll and webhook metrics with reg.
//
// A [Board] creates a private registry when none is given and serves it at
// /metrics. An [EventPoller] records no metrics without this option.
//
// Returns an error if reg is nil.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(cfg *ebConfig) error {
		if reg == nil {
			return errors.New("metrics registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "Repository Events".
func WithTitle(title string) Option {
	return func(cfg *ebConfig) error {
		cfg.title = title
		return nil
	}
}
