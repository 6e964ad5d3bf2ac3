// Package server provides the HTTP server for the eventboard dashboard, its
// API, and the webhook receiver.
//
// This package is internal to eventboard and handles all HTTP concerns:
//
//   - Dashboard serving: renders the display container at "/"
//   - REST API: "/api/events" snapshot and "/api/stats" poller counters
//   - Server-Sent Events: live snapshots at "/api/sse"
//   - Webhook receiver: "/webhook" logs and acknowledges JSON deliveries
//   - Metrics: Prometheus exposition at "/metrics"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
