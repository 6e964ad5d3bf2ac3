package eventboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/eventboard/internal/metrics"
	"github.com/jpalmerr/eventboard/internal/poller"
)

const defaultPollingInterval = 15 * time.Second

// ErrPollFailed is wrapped by every error recorded for a failed poll cycle:
// transport failures, non-2xx responses, undecodable bodies, container
// errors and recovered panics alike.
var ErrPollFailed = errors.New("poll cycle failed")

// Snapshot is the outcome of one successful poll cycle.
type Snapshot struct {
	// CycleID identifies the poll cycle in logs.
	CycleID string

	// Entries are the display strings written to the container, in feed order.
	Entries []string

	// Records are the decoded records the entries were formatted from.
	Records []Record

	// RenderedAt is when the container was replaced.
	RenderedAt time.Time

	// Latency is the time taken by the HTTP fetch.
	Latency time.Duration
}

// Stats summarises an [EventPoller]'s history.
type Stats struct {
	// Cycles counts completed poll cycles, successful or not.
	Cycles uint64

	// Successes counts cycles that replaced the container contents.
	Successes uint64

	// Failures counts cycles that left the container untouched.
	Failures uint64

	// Skipped counts polls dropped because a cycle was already in flight.
	Skipped uint64

	// Entries is the number of entries rendered by the last success.
	Entries int

	// LastError is the error of the most recent failed cycle, wrapping
	// [ErrPollFailed]. It is not cleared by later successes.
	LastError error

	// LastSuccess is when the container was last replaced.
	LastSuccess time.Time

	// LastFailure is when the last failed cycle finished.
	LastFailure time.Time
}

// EventPoller owns the poll → parse → format → render cycle for one
// [Source] and one [Container].
//
// Create it with [NewEventPoller], run a single cycle with
// [EventPoller.Poll], or drive it on a timer with [EventPoller.Start]. The
// poller never lets an error escape a cycle: failures are logged, counted
// in [EventPoller.Stats], and the container keeps its previous contents.
//
// Cycles never overlap. A poll requested while another is in flight is
// skipped rather than queued, so a slow response cannot be overwritten by
// an older one.
type EventPoller struct {
	source    Source
	container Container
	interval  time.Duration
	formatter Formatter
	logger    *slog.Logger
	callbacks []func(Snapshot)
	client    *poller.Client
	metrics   *metrics.Metrics
	now       func() time.Time

	// cycleMu is held for the whole of a cycle; Poll only ever TryLocks it.
	cycleMu sync.Mutex

	statsMu sync.RWMutex
	stats   Stats

	lifeMu    sync.Mutex
	scheduler *poller.Scheduler
	disposed  bool
}

// NewEventPoller creates an [EventPoller] that renders src into c.
//
// Applicable options: [WithPollingInterval], [WithLogger], [WithFormatter],
// [WithRenderCallback], [WithMetricsRegistry].
//
// Example:
//
//	src, _ := eventboard.NewSource("http://localhost:3000")
//	ep, err := eventboard.NewEventPoller(src, myContainer,
//	    eventboard.WithPollingInterval(15 * time.Second),
//	)
//	ep.Start(ctx)
//	defer ep.Dispose()
//
// Returns an error if src was not created with [NewSource], c is nil, or an
// option is invalid.
func NewEventPoller(src Source, c Container, opts ...Option) (*EventPoller, error) {
	if src.baseURL == "" {
		return nil, errors.New("source must be created with NewSource")
	}
	if c == nil {
		return nil, errors.New("container cannot be nil")
	}

	cfg := &ebConfig{pollingInterval: defaultPollingInterval}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return newEventPoller(src, c, cfg), nil
}

func newEventPoller(src Source, c Container, cfg *ebConfig) *EventPoller {
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	formatter := cfg.formatter
	if formatter == nil {
		formatter = DefaultFormatter
	}

	var m *metrics.Metrics
	if cfg.registry != nil {
		m = metrics.New(cfg.registry)
	}

	return &EventPoller{
		source:    src,
		container: c,
		interval:  cfg.pollingInterval,
		formatter: formatter,
		logger:    logger.With("source", src.URL()),
		callbacks: cfg.renderCallbacks,
		client:    poller.NewClient(),
		metrics:   m,
		now:       time.Now,
	}
}

// Source returns the polled source.
func (p *EventPoller) Source() Source {
	return p.source
}

// Interval returns the delay between scheduled cycles.
func (p *EventPoller) Interval() time.Duration {
	return p.interval
}

// Stats returns a copy of the poller's counters and last outcomes.
func (p *EventPoller) Stats() Stats {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	return p.stats
}

// Poll runs one poll cycle.
//
// It fetches the source, decodes the response, formats every record and
// replaces the container's contents with the result. On any failure the
// container is left untouched and the error is logged and recorded in
// [EventPoller.Stats]; nothing is returned and no panic propagates.
//
// If another cycle is in flight, Poll returns immediately and counts the
// call as skipped. A cycle cut short by cancellation of ctx is abandoned:
// it is neither counted nor logged as a failure.
func (p *EventPoller) Poll(ctx context.Context) {
	if !p.cycleMu.TryLock() {
		p.recordSkip()
		return
	}
	defer p.cycleMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	cycleID := uuid.NewString()
	start := time.Now()

	snap, err := p.runCycle(ctx, cycleID)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			p.logger.Debug("poll cycle abandoned",
				"cycle_id", cycleID,
				"duration_ms", elapsed.Milliseconds(),
			)
			return
		}
		p.recordFailure(cycleID, err, elapsed)
		return
	}

	p.recordSuccess(snap, elapsed)
	for _, cb := range p.callbacks {
		invokeCallbackSafe(cb, snap.clone(), p.logger)
	}
}

// runCycle performs fetch, decode, format and render. Panics raised by the
// formatter or the container are converted into an error.
func (p *EventPoller) runCycle(ctx context.Context, cycleID string) (snap Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("poll cycle panic",
				"cycle_id", cycleID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			snap = Snapshot{}
			err = fmt.Errorf("%w: panic (cycle_id: %s): %v", ErrPollFailed, cycleID, r)
		}
	}()

	resp := p.client.Get(ctx, p.source.URL(), p.source.Timeout())
	if resp.Error != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrPollFailed, resp.Error)
	}
	if !resp.OK() {
		return Snapshot{}, fmt.Errorf("%w: unexpected status %d", ErrPollFailed, resp.StatusCode)
	}

	records, err := DecodeRecords(resp.Body, p.source.Variant())
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode response: %w", ErrPollFailed, err)
	}

	entries := make([]string, len(records))
	for i, rec := range records {
		entries[i] = p.formatter(rec)
	}

	if err := p.container.Replace(entries); err != nil {
		return Snapshot{}, fmt.Errorf("%w: render: %w", ErrPollFailed, err)
	}

	return Snapshot{
		CycleID:    cycleID,
		Entries:    entries,
		Records:    records,
		RenderedAt: p.now(),
		Latency:    resp.Latency,
	}, nil
}

func (p *EventPoller) recordSkip() {
	p.statsMu.Lock()
	p.stats.Skipped++
	p.statsMu.Unlock()

	p.metrics.CycleSkipped()
	p.logger.Debug("poll skipped", "reason", "previous cycle still in flight")
}

func (p *EventPoller) recordFailure(cycleID string, err error, elapsed time.Duration) {
	p.statsMu.Lock()
	p.stats.Cycles++
	p.stats.Failures++
	p.stats.LastError = err
	p.stats.LastFailure = p.now()
	p.statsMu.Unlock()

	p.metrics.CycleFailed(elapsed)
	p.logger.Error("error fetching events",
		"cycle_id", cycleID,
		"duration_ms", elapsed.Milliseconds(),
		"error", err.Error(),
	)
}

func (p *EventPoller) recordSuccess(snap Snapshot, elapsed time.Duration) {
	p.statsMu.Lock()
	p.stats.Cycles++
	p.stats.Successes++
	p.stats.Entries = len(snap.Entries)
	p.stats.LastSuccess = snap.RenderedAt
	p.statsMu.Unlock()

	p.metrics.CycleSucceeded(elapsed, len(snap.Entries), snap.RenderedAt)
	p.logger.Debug("poll cycle completed",
		"cycle_id", snap.CycleID,
		"entries", len(snap.Entries),
		"latency_ms", snap.Latency.Milliseconds(),
	)
}

// Start polls once immediately and then every interval until [EventPoller.Stop],
// [EventPoller.Dispose], or cancellation of ctx.
//
// Start is non-blocking and idempotent while running. After Stop it may be
// called again to resume polling; after Dispose it is a no-op. If ctx is
// cancelled, call Stop before starting again.
func (p *EventPoller) Start(ctx context.Context) {
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()

	if p.disposed || p.scheduler != nil {
		return
	}

	p.scheduler = poller.NewScheduler(p.interval, p.Poll, p.logger)
	p.scheduler.Start(ctx)
	p.logger.Info("event poller started",
		"interval", p.interval.String(),
		"variant", p.source.Variant().String(),
		"container_id", p.source.ContainerID(),
	)
}

// Running reports whether the poller's timer is active.
func (p *EventPoller) Running() bool {
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()
	return p.scheduler != nil
}

// Stop halts the timer and waits for an in-flight cycle to return. A fetch
// still waiting on the source is cancelled and the cycle is abandoned, so
// Stats is left as it was before the cycle began.
// Stop is idempotent and safe to call before Start.
func (p *EventPoller) Stop() {
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()

	if p.scheduler == nil {
		return
	}
	p.scheduler.Stop()
	p.scheduler = nil
	p.logger.Info("event poller stopped")
}

// Dispose stops the poller permanently and releases its idle connections.
// Dispose is idempotent.
func (p *EventPoller) Dispose() {
	p.Stop()

	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()

	if p.disposed {
		return
	}
	p.disposed = true
	p.client.Close()
}

func (s Snapshot) clone() Snapshot {
	entries := make([]string, len(s.Entries))
	copy(entries, s.Entries)
	records := make([]Record, len(s.Records))
	copy(records, s.Records)
	s.Entries, s.Records = entries, records
	return s
}

// invokeCallbackSafe calls a render callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Snapshot), snap Snapshot, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("render callback panicked",
				"panic", r,
				"cycle_id", snap.CycleID,
			)
		}
	}()
	cb(snap)
}
