package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/eventboard"
	"github.com/jpalmerr/eventboard/example/mockfeed"
)

func main() {
	// start the mock events feed
	go func() {
		if err := http.ListenAndServe(":9999", mockfeed.New()); err != nil {
			slog.Error("mock feed error", "error", err)
			os.Exit(1)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	src, err := eventboard.NewSource("http://localhost:9999")
	if err != nil {
		slog.Error("failed to create source", "error", err)
		os.Exit(1)
	}

	eb, err := eventboard.New(
		eventboard.WithSource(src),
		eventboard.WithPollingInterval(5*time.Second),
		eventboard.WithPort(8080),
		eventboard.WithRenderCallback(func(s eventboard.Snapshot) {
			slog.Info("rendered", "entries", len(s.Entries), "cycle_id", s.CycleID)
		}),
	)
	if err != nil {
		slog.Error("failed to create eventboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   eventboard Demo                                     ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   A mock feed on :9999 adds an event every 5-15s      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := eb.Start(ctx); err != nil {
		slog.Error("eventboard error", "error", err)
		os.Exit(1)
	}
}
