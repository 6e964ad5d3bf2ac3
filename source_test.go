package eventboard

import (
	"strings"
	"testing"
	"time"
)

func TestNewSource_Defaults(t *testing.T) {
	src, err := NewSource("http://localhost:3000")
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	if src.BaseURL() != "http://localhost:3000" {
		t.Errorf("BaseURL() = %q", src.BaseURL())
	}
	if src.Path() != DefaultPath {
		t.Errorf("Path() = %q, want %q", src.Path(), DefaultPath)
	}
	if src.URL() != "http://localhost:3000/events/latest" {
		t.Errorf("URL() = %q, want http://localhost:3000/events/latest", src.URL())
	}
	if src.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %v, want 10s", src.Timeout())
	}
	if src.Variant() != VariantStructured {
		t.Errorf("Variant() = %q, want structured", src.Variant())
	}
	if src.ContainerID() != "events" {
		t.Errorf("ContainerID() = %q, want events", src.ContainerID())
	}
}

func TestNewSource_WithOptions(t *testing.T) {
	src, err := NewSource("https://example.com/",
		WithPath("/api/feed"),
		WithTimeout(3*time.Second),
		WithVariant(VariantText),
	)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	if src.URL() != "https://example.com/api/feed" {
		t.Errorf("URL() = %q, want https://example.com/api/feed", src.URL())
	}
	if src.Timeout() != 3*time.Second {
		t.Errorf("Timeout() = %v, want 3s", src.Timeout())
	}
	if src.ContainerID() != "event-list" {
		t.Errorf("ContainerID() = %q, want event-list", src.ContainerID())
	}
}

func TestNewSource_ContainerIDOverride(t *testing.T) {
	src, err := NewSource("http://localhost:3000",
		WithVariant(VariantText),
		WithContainerID("feed"),
	)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	if src.ContainerID() != "feed" {
		t.Errorf("ContainerID() = %q, want feed", src.ContainerID())
	}
}

func TestNewSource_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		opts    []SourceOption
		wantErr string
	}{
		{"empty url", "", nil, "cannot be empty"},
		{"no scheme", "localhost:3000", nil, "scheme"},
		{"ftp scheme", "ftp://example.com", nil, "scheme"},
		{"no host", "http://", nil, "host"},
		{"unparsable", "http://[::1", nil, "invalid URL"},
		{"relative path", "http://localhost", []SourceOption{WithPath("events")}, "must start with '/'"},
		{"zero timeout", "http://localhost", []SourceOption{WithTimeout(0)}, "timeout must be positive"},
		{"negative timeout", "http://localhost", []SourceOption{WithTimeout(-time.Second)}, "timeout must be positive"},
		{"unknown variant", "http://localhost", []SourceOption{WithVariant("html")}, "unknown variant"},
		{"blank container", "http://localhost", []SourceOption{WithContainerID("  ")}, "container id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource(tt.url, tt.opts...)
			if err == nil {
				t.Fatal("NewSource() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestVariant(t *testing.T) {
	tests := []struct {
		variant   Variant
		valid     bool
		container string
		list      bool
	}{
		{VariantStructured, true, "events", false},
		{VariantText, true, "event-list", true},
		{VariantAuto, true, "events", false},
		{Variant(""), false, "events", false},
		{Variant("xml"), false, "events", false},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			if got := tt.variant.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.variant.ContainerID(); got != tt.container {
				t.Errorf("ContainerID() = %q, want %q", got, tt.container)
			}
			if got := tt.variant.ListLayout(); got != tt.list {
				t.Errorf("ListLayout() = %v, want %v", got, tt.list)
			}
		})
	}
}
