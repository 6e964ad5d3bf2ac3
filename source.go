package eventboard

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultPath is the events endpoint polled on a source's base URL.
	DefaultPath = "/events/latest"

	defaultSourceTimeout = 10 * time.Second
)

// Source describes the events endpoint polled by an [EventPoller] and how
// its response is displayed.
//
// Source is immutable after creation via [NewSource]. Configure it with
// [SourceOption] functions such as [WithPath], [WithTimeout], [WithVariant]
// and [WithContainerID].
type Source struct {
	baseURL     string
	path        string
	timeout     time.Duration
	variant     Variant
	containerID string
}

// BaseURL returns the base URL the source was created with.
func (s Source) BaseURL() string {
	return s.baseURL
}

// Path returns the path of the events endpoint. Defaults to [DefaultPath].
func (s Source) Path() string {
	return s.path
}

// URL returns the full URL requested on every poll: the base URL with
// [Source.Path] appended.
func (s Source) URL() string {
	return strings.TrimRight(s.baseURL, "/") + s.path
}

// Timeout returns the per-request timeout. Defaults to 10 seconds.
func (s Source) Timeout() time.Duration {
	return s.timeout
}

// Variant returns the record shape the source serves.
// Defaults to [VariantStructured].
func (s Source) Variant() Variant {
	return s.variant
}

// ContainerID returns the identifier of the display container entries are
// rendered into. Defaults to the variant's well-known id ("events" or
// "event-list").
func (s Source) ContainerID() string {
	if s.containerID != "" {
		return s.containerID
	}
	return s.variant.ContainerID()
}

// NewSource creates a [Source] polling rawURL.
//
// rawURL is the base URL of the service exposing the events endpoint, for
// example "http://localhost:3000". It must carry an http or https scheme and
// a host. The endpoint path ([DefaultPath] unless [WithPath] is given) is
// appended to it.
//
// Example:
//
//	src, err := eventboard.NewSource("http://localhost:3000",
//	    eventboard.WithVariant(eventboard.VariantText),
//	    eventboard.WithTimeout(5 * time.Second),
//	)
func NewSource(rawURL string, opts ...SourceOption) (Source, error) {
	if rawURL == "" {
		return Source{}, errors.New("source URL cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Source{}, errors.New("invalid URL: " + err.Error())
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return Source{}, errors.New("URL must have an http:// or https:// scheme")
	}
	if parsedURL.Host == "" {
		return Source{}, errors.New("URL must have a host")
	}

	cfg := &sourceConfig{
		path:    DefaultPath,
		timeout: defaultSourceTimeout,
		variant: VariantStructured,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Source{}, err
		}
	}

	return Source{
		baseURL:     rawURL,
		path:        cfg.path,
		timeout:     cfg.timeout,
		variant:     cfg.variant,
		containerID: cfg.containerID,
	}, nil
}
