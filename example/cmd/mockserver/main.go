// Standalone mock events feed for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/eventboard serve -c example/config.yaml
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jpalmerr/eventboard/example/mockfeed"
)

func main() {
	fmt.Println("Mock events feed starting on :9999")
	fmt.Println("GET " + mockfeed.StructuredPath + " (structured records)")
	fmt.Println("GET " + mockfeed.TextPath + " (pre-rendered text records)")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if err := http.ListenAndServe(":9999", mockfeed.New()); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
