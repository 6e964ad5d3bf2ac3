package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpalmerr/eventboard/internal/metrics"
	"github.com/jpalmerr/eventboard/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "Repository Events"

	defaultContainerID = "events"

	dashboardPath = "assets/index.html"

	maxWebhookBodySize = 1 << 20 // 1MB

	healthText = "Webhook server is running!"
)

// PollStats is the JSON representation of the poller's counters served at
// /api/stats.
type PollStats struct {
	Cycles      uint64     `json:"cycles"`
	Successes   uint64     `json:"successes"`
	Failures    uint64     `json:"failures"`
	Skipped     uint64     `json:"skipped"`
	Entries     int        `json:"entries"`
	LastError   *string    `json:"last_error"`
	LastSuccess *time.Time `json:"last_success"`
	LastFailure *time.Time `json:"last_failure"`
}

// Config configures a [Server].
type Config struct {
	// Port is the TCP port to listen on. Zero picks a free port.
	Port int

	// Title is the dashboard title. Defaults to "Repository Events".
	Title string

	// ContainerID is the id of the display container element.
	// Defaults to "events".
	ContainerID string

	// ListLayout renders entries as list items of a ul element instead of
	// div blocks.
	ListLayout bool

	// Assets holds assets/index.html. The dashboard route is not mounted
	// when nil.
	Assets fs.FS

	// Gatherer is exposed at /metrics. The route is not mounted when nil.
	Gatherer prometheus.Gatherer

	// Metrics records webhook deliveries. May be nil.
	Metrics *metrics.Metrics

	// Stats reports the poller's counters at /api/stats. The route is not
	// mounted when nil.
	Stats func() PollStats

	// Logger receives server events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Server handles HTTP requests for the dashboard, its API, and the webhook
// receiver.
//
// Routes:
//   - GET /: the dashboard page with the display container
//   - GET /api/events: current snapshot as JSON
//   - GET /api/sse: Server-Sent Events stream of snapshots
//   - GET /api/stats: poller counters
//   - POST /webhook: logs and acknowledges a JSON webhook delivery
//   - GET /healthz: liveness text
//   - GET /metrics: Prometheus exposition
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	store  store.Store
	cfg    Config
	logger *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

// NewServer creates a new HTTP [Server] backed by st.
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.ContainerID == "" {
		cfg.ContainerID = defaultContainerID
	}
	return &Server{
		store:  st,
		cfg:    cfg,
		logger: logger,
	}
}

// Handler returns the router serving all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if s.cfg.Assets != nil {
		r.Get("/", s.handleDashboard)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleEvents)
		r.Get("/sse", s.handleSSE)
		if s.cfg.Stats != nil {
			r.Get("/stats", s.handleStats)
		}
	})

	r.Post("/webhook", s.handleWebhook)
	r.Get("/healthz", s.handleHealth)

	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.cfg.Port, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.addr = ln.Addr()
	s.mu.Unlock()

	go func() {
		if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Addr returns the address the server is listening on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// dashboardData is the template data for assets/index.html.
type dashboardData struct {
	Title       string
	ContainerID string
	ListLayout  bool
	Entries     []string
	UpdatedAt   time.Time
}

// handleDashboard renders the dashboard page with the current entries.
// html/template escapes entries, so record fields can never inject markup.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(s.cfg.Assets, dashboardPath)
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	tmpl, err := template.New("index").Parse(string(content))
	if err != nil {
		s.logger.Error("failed to parse dashboard template", "error", err)
		http.Error(w, "Dashboard unavailable", http.StatusInternalServerError)
		return
	}

	snap := s.store.Snapshot()
	data := dashboardData{
		Title:       s.cfg.Title,
		ContainerID: s.cfg.ContainerID,
		ListLayout:  s.cfg.ListLayout,
		Entries:     snap.Entries,
		UpdatedAt:   snap.UpdatedAt,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleEvents returns the current snapshot as JSON.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// handleStats returns the poller counters as JSON.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.Stats())
}

// handleSSE streams snapshots via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	writeAndFlush := func(snap store.Snapshot) error {
		data, err := json.Marshal(snap)
		if err != nil {
			return err
		}

		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				// deadline not supported by underlying connection, continue without
				s.logger.Debug("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}

		// ResponseController.Flush respects the write deadline
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	if err := writeAndFlush(s.store.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if err := writeAndFlush(snap); err != nil {
				return
			}

		case <-r.Context().Done():
			// request context is derived from server context via BaseContext,
			// so this fires on both client disconnect AND server shutdown
			return
		}
	}
}

// handleWebhook accepts a JSON delivery, logs it and acknowledges receipt.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Warn("webhook rejected", "error", err.Error())
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
		return
	}

	event := r.Header.Get("X-GitHub-Event")
	s.cfg.Metrics.WebhookReceived(event)
	s.logger.Info("webhook received",
		"event", event,
		"delivery", r.Header.Get("X-GitHub-Delivery"),
		"request_id", middleware.GetReqID(r.Context()),
		"payload", string(body),
	)

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// handleHealth reports that the server is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, healthText)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
