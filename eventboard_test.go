package eventboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// freePort returns a TCP port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	defer func() { _ = ln.Close() }()
	return ln.Addr().(*net.TCPAddr).Port
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestBoardStart_BlocksUntilContextCancelled(t *testing.T) {
	ts := httptest.NewServer(newFeed(twoEvents))
	defer ts.Close()

	src, _ := NewSource(ts.URL)
	eb, err := New(
		WithSource(src),
		WithPort(freePort(t)),
		WithPollingInterval(100*time.Millisecond),
		WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eb.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("Start() returned early with error: %v", err)
	default:
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

func TestBoardStart_ReturnsImmediatelyIfContextAlreadyCancelled(t *testing.T) {
	src := testSource(t)
	eb, err := New(WithSource(src), WithPort(freePort(t)), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- eb.Start(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start() should return immediately for a cancelled context")
	}
}

func TestBoardStart_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	defer func() { _ = ln.Close() }()

	eb, err := New(
		WithSource(testSource(t)),
		WithPort(ln.Addr().(*net.TCPAddr).Port),
		WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = eb.Start(ctx)
	if err == nil {
		t.Fatal("Start() expected error for occupied port, got nil")
	}
	if !strings.Contains(err.Error(), "failed to start HTTP server") {
		t.Errorf("error = %v, want containing 'failed to start HTTP server'", err)
	}
}

func TestBoardStart_ServesRenderedEvents(t *testing.T) {
	ts := httptest.NewServer(newFeed(twoEvents))
	defer ts.Close()

	port := freePort(t)
	src, _ := NewSource(ts.URL)
	eb, err := New(
		WithSource(src),
		WithPort(port),
		WithTitle("Repo Activity"),
		WithPollingInterval(time.Hour),
		WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eb.Start(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	base := fmt.Sprintf("http://localhost:%d", port)

	var events struct {
		Entries []string `json:"entries"`
	}
	waitFor(t, 3*time.Second, func() bool {
		resp, err := http.Get(base + "/api/events")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
			return false
		}
		return len(events.Entries) == 2
	})
	if events.Entries[0] != twoEntries[0] {
		t.Errorf("Entries[0] = %q, want %q", events.Entries[0], twoEntries[0])
	}

	resp, err := http.Get(base + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	page, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.Contains(string(page), "Repo Activity") {
		t.Error("dashboard should carry the configured title")
	}
	if !strings.Contains(string(page), `id="events"`) {
		t.Error("dashboard should render the events container")
	}
	if !strings.Contains(string(page), "&#34;alice&#34; pushed to &#34;main&#34;") {
		t.Errorf("dashboard should render escaped entries, got: %s", page)
	}

	resp, err = http.Get(base + "/api/stats")
	if err != nil {
		t.Fatalf("GET /api/stats error = %v", err)
	}
	var stats struct {
		Successes uint64 `json:"successes"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&stats)
	_ = resp.Body.Close()
	if stats.Successes != 1 {
		t.Errorf("successes = %d, want 1", stats.Successes)
	}

	resp, err = http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.Contains(string(body), `eventboard_poll_cycles_total{result="success"} 1`) {
		t.Errorf("metrics missing poll counter, got: %s", body)
	}
}

func TestToPollStats(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := toPollStats(Stats{
		Cycles:      2,
		Successes:   1,
		Failures:    1,
		LastError:   fmt.Errorf("%w: unexpected status 500", ErrPollFailed),
		LastSuccess: at,
	})

	if got.LastError == nil || *got.LastError != "poll cycle failed: unexpected status 500" {
		t.Errorf("LastError = %v", got.LastError)
	}
	if got.LastSuccess == nil || !got.LastSuccess.Equal(at) {
		t.Errorf("LastSuccess = %v, want %v", got.LastSuccess, at)
	}
	if got.LastFailure != nil {
		t.Errorf("LastFailure = %v, want nil", got.LastFailure)
	}
}
