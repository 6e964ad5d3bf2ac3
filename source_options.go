package eventboard

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// sourceConfig holds mutable state during source construction.
type sourceConfig struct {
	path        string
	timeout     time.Duration
	variant     Variant
	containerID string
}

// SourceOption is a function that configures a [Source] during construction.
//
// Built-in options: [WithPath], [WithTimeout], [WithVariant], [WithContainerID].
type SourceOption func(*sourceConfig) error

// WithPath overrides the events endpoint path appended to the base URL.
//
// Returns an error if the path does not start with "/".
func WithPath(path string) SourceOption {
	return func(cfg *sourceConfig) error {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("path must start with '/', got %q", path)
		}
		cfg.path = path
		return nil
	}
}

// WithTimeout sets the HTTP request timeout for each poll.
//
// The timeout bounds a single fetch, including reading the body. It is
// independent of the polling interval: a poll still in flight when the next
// tick fires causes that tick to be skipped.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) SourceOption {
	return func(cfg *sourceConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithVariant selects the record shape served by the source.
//
// Example:
//
//	src, err := eventboard.NewSource(base,
//	    eventboard.WithVariant(eventboard.VariantText),
//	)
//
// Returns an error for an unknown variant.
func WithVariant(v Variant) SourceOption {
	return func(cfg *sourceConfig) error {
		if !v.Valid() {
			return fmt.Errorf("unknown variant %q (expected structured, text, or auto)", v)
		}
		cfg.variant = v
		return nil
	}
}

// WithContainerID overrides the identifier of the display container.
//
// Returns an error if id is empty.
func WithContainerID(id string) SourceOption {
	return func(cfg *sourceConfig) error {
		if strings.TrimSpace(id) == "" {
			return errors.New("container id cannot be empty")
		}
		cfg.containerID = id
		return nil
	}
}
