// Package eventboard polls a repository events feed and renders each event
// as a line of human-readable text.
//
// The core is a single cycle, repeated on a fixed timer: fetch the events
// endpoint, decode the JSON array into [Record] values, format every record
// with a [Formatter], and replace the contents of a display [Container] with
// the result. A failed cycle is logged and counted; the container keeps what
// it showed before.
//
// # Quick Start
//
// Serve a live dashboard for a feed with graceful shutdown:
//
//	src, _ := eventboard.NewSource("http://localhost:3000")
//	eb, _ := eventboard.New(eventboard.WithSource(src))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	eb.Start(ctx) // blocks until context is cancelled
//
// Or drive any rendering surface directly with an [EventPoller]:
//
//	ep, _ := eventboard.NewEventPoller(src, eventboard.ContainerFunc(func(entries []string) error {
//	    for _, e := range entries {
//	        fmt.Println(e)
//	    }
//	    return nil
//	}))
//	ep.Start(ctx)
//	defer ep.Dispose()
//
// # Records and variants
//
// Feeds come in two shapes. [VariantStructured] feeds send objects with
// event_type, author, branch and timestamp fields, decoded as
// [StructuredEvent]. [VariantText] feeds send pre-rendered text with an
// optional summary, decoded as [TextEvent]. [VariantAuto] accepts both in
// one array. The variant also picks the display container: a block layout
// with id "events", or a list layout with id "event-list".
//
// # Architecture
//
//   - internal/poller: HTTP client and fixed-interval scheduler
//   - internal/store: in-memory entry store with pub/sub for live updates
//   - internal/server: dashboard, JSON API, Server-Sent Events, webhook receiver
//   - internal/metrics: Prometheus collectors
//   - internal/terminal: terminal rendering surface for the watch command
//   - dashboard: embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package eventboard
