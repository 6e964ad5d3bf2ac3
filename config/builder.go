package config

import (
	"log/slog"

	"github.com/jpalmerr/eventboard"
)

// BuildSource converts the parsed source section into an SDK Source.
// Unset fields keep the SDK defaults.
func BuildSource(cfg *Config) (eventboard.Source, error) {
	sc := cfg.Source

	var opts []eventboard.SourceOption

	if sc.Path != "" {
		opts = append(opts, eventboard.WithPath(sc.Path))
	}

	if sc.Timeout != 0 {
		opts = append(opts, eventboard.WithTimeout(sc.Timeout.Duration()))
	}

	if sc.Variant != "" {
		opts = append(opts, eventboard.WithVariant(eventboard.Variant(sc.Variant)))
	}

	if sc.ContainerID != "" {
		opts = append(opts, eventboard.WithContainerID(sc.ContainerID))
	}

	return eventboard.NewSource(sc.URL, opts...)
}

// BuildOptions returns the SDK options shared by the serve and watch
// commands: polling interval, logger, and title when set.
func BuildOptions(cfg *Config, logger *slog.Logger) []eventboard.Option {
	opts := []eventboard.Option{
		eventboard.WithPollingInterval(cfg.PollInterval.Duration()),
	}
	if logger != nil {
		opts = append(opts, eventboard.WithLogger(logger))
	}
	if cfg.Title != "" {
		opts = append(opts, eventboard.WithTitle(cfg.Title))
	}
	return opts
}
