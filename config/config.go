// Package config provides YAML configuration parsing for eventboard.
//
// This package enables running eventboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Repository Events
//	port: 8080
//	poll_interval: 15s
//	log_level: info
//
//	source:
//	  url: ${EVENTS_URL:-http://localhost:3000}
//	  path: /events/latest
//	  timeout: 10s
//	  variant: structured
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// minPollInterval is the minimum allowed polling interval for production configs.
// This prevents accidental DoS of the feed with overly aggressive polling.
const minPollInterval = 1 * time.Second

const (
	defaultPort         = 8080
	defaultPollInterval = 15 * time.Second
)

// Config is the root configuration structure for eventboard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "Repository Events" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// PollInterval is the time between poll cycles.
	// Accepts duration strings like "15s", "1m", "500ms".
	// Defaults to 15s.
	PollInterval Duration `yaml:"poll_interval"`

	// LogLevel is one of debug, info, warn or error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// Source describes the events feed.
	Source SourceConfig `yaml:"source"`
}

// SourceConfig defines the events endpoint to poll.
type SourceConfig struct {
	// URL is the base URL of the service exposing the feed.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Path is appended to URL. Defaults to /events/latest.
	Path string `yaml:"path"`

	// Timeout is the request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Variant is the record shape: structured, text or auto.
	// Defaults to structured.
	Variant string `yaml:"variant"`

	// ContainerID overrides the display container id.
	ContainerID string `yaml:"container_id"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the source URL are expanded after parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Defaults are applied for Port (8080) and PollInterval (15s); the source
// defaults live in the SDK and are applied by [BuildSource].
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(defaultPollInterval)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	src := &c.Source

	if src.URL == "" {
		return errors.New("source: url is required")
	}
	expanded, err := expandEnvVars(src.URL)
	if err != nil {
		return fmt.Errorf("source: url: %w", err)
	}
	src.URL = expanded

	parsedURL, err := url.Parse(src.URL)
	if err != nil {
		return fmt.Errorf("source: invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return errors.New("source: url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("source: url scheme must be http or https, got %q", parsedURL.Scheme)
	}

	if src.Path != "" && !strings.HasPrefix(src.Path, "/") {
		return fmt.Errorf("source: path must start with '/', got %q", src.Path)
	}

	if src.Timeout != 0 {
		if src.Timeout.Duration() < 0 {
			return fmt.Errorf("source: timeout cannot be negative, got %s", src.Timeout.Duration())
		}
		if src.Timeout.Duration() < time.Second {
			return fmt.Errorf("source: timeout must be at least 1s if specified, got %s", src.Timeout.Duration())
		}
	}

	switch src.Variant {
	case "", "structured", "text", "auto":
	default:
		return fmt.Errorf("source: unknown variant %q (expected structured, text, or auto)", src.Variant)
	}

	return nil
}

// ParseLevel maps a log_level value to a [slog.Level]. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn, or error, got %q", s)
	}
}
