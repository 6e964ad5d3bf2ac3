package eventboard

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func testSource(t *testing.T) Source {
	t.Helper()
	src, err := NewSource("http://localhost:3000")
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	return src
}

func TestNew_Valid(t *testing.T) {
	src := testSource(t)

	eb, err := New(WithSource(src))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if eb.Source().URL() != src.URL() {
		t.Errorf("Source().URL() = %q, want %q", eb.Source().URL(), src.URL())
	}
	if eb.Port() != 8080 {
		t.Errorf("Port() = %d, want 8080", eb.Port())
	}
	if eb.PollingInterval() != 15*time.Second {
		t.Errorf("PollingInterval() = %v, want 15s", eb.PollingInterval())
	}
	if eb.Registry() == nil {
		t.Error("Registry() should default to a private registry")
	}
}

func TestNew_NoSource(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("New() expected error for missing source, got nil")
	}
	if !strings.Contains(err.Error(), "source is required") {
		t.Errorf("error = %v, want containing 'source is required'", err)
	}
}

func TestWithSource_ZeroValue(t *testing.T) {
	_, err := New(WithSource(Source{}))
	if err == nil {
		t.Error("WithSource(Source{}) expected error, got nil")
	}
}

func TestWithPollingInterval(t *testing.T) {
	src := testSource(t)

	eb, err := New(WithSource(src), WithPollingInterval(30*time.Second))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if eb.PollingInterval() != 30*time.Second {
		t.Errorf("PollingInterval() = %v, want 30s", eb.PollingInterval())
	}

	for _, d := range []time.Duration{0, -time.Second} {
		if _, err := New(WithSource(src), WithPollingInterval(d)); err == nil {
			t.Errorf("WithPollingInterval(%v) expected error, got nil", d)
		}
	}
}

func TestWithPort(t *testing.T) {
	src := testSource(t)

	tests := []struct {
		port    int
		wantErr bool
	}{
		{1, false},
		{9090, false},
		{65535, false},
		{0, true},
		{-1, true},
		{65536, true},
	}

	for _, tt := range tests {
		eb, err := New(WithSource(src), WithPort(tt.port))
		if (err != nil) != tt.wantErr {
			t.Errorf("WithPort(%d) error = %v, wantErr %v", tt.port, err, tt.wantErr)
			continue
		}
		if err == nil && eb.Port() != tt.port {
			t.Errorf("Port() = %d, want %d", eb.Port(), tt.port)
		}
	}
}

func TestWithLogger(t *testing.T) {
	src := testSource(t)

	if _, err := New(WithSource(src), WithLogger(nil)); err == nil {
		t.Error("WithLogger(nil) expected error, got nil")
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	if _, err := New(WithSource(src), WithLogger(logger)); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestWithFormatter_NilIgnored(t *testing.T) {
	cfg := &ebConfig{}
	if err := WithFormatter(nil)(cfg); err != nil {
		t.Fatalf("WithFormatter(nil) error = %v", err)
	}
	if cfg.formatter != nil {
		t.Error("nil formatter should be ignored")
	}
}

func TestWithRenderCallback_NilIgnored(t *testing.T) {
	cfg := &ebConfig{}
	_ = WithRenderCallback(nil)(cfg)
	_ = WithRenderCallback(func(Snapshot) {})(cfg)
	if len(cfg.renderCallbacks) != 1 {
		t.Errorf("len(renderCallbacks) = %d, want 1", len(cfg.renderCallbacks))
	}
}

func TestWithMetricsRegistry(t *testing.T) {
	src := testSource(t)

	if _, err := New(WithSource(src), WithMetricsRegistry(nil)); err == nil {
		t.Error("WithMetricsRegistry(nil) expected error, got nil")
	}

	reg := prometheus.NewRegistry()
	eb, err := New(WithSource(src), WithMetricsRegistry(reg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if eb.Registry() != reg {
		t.Error("Registry() should return the configured registry")
	}
}

func TestWithTitle(t *testing.T) {
	cfg := &ebConfig{}
	if err := WithTitle("Repo Activity")(cfg); err != nil {
		t.Fatalf("WithTitle() error = %v", err)
	}
	if cfg.title != "Repo Activity" {
		t.Errorf("title = %q, want Repo Activity", cfg.title)
	}
}
