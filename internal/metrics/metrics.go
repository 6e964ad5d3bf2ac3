// Package metrics exposes Prometheus collectors for poll cycles and webhook
// deliveries.
//
// All methods are safe to call on a nil *Metrics, so components can record
// unconditionally and metrics stay optional.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "eventboard"

// Poll cycle outcomes used as the "result" label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Metrics holds the collectors registered for one registry.
type Metrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Summary
	entries       prometheus.Gauge
	lastSuccess   prometheus.Gauge
	webhooks      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
//
// Registering twice against the same registry reuses the collectors already
// there, so several pollers may share one registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Number of poll cycles by result",
		}, []string{"result"}),
		cycleDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "poll_cycle_duration_seconds",
			Help:      "Time spent fetching, formatting and rendering one poll cycle",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rendered_entries",
			Help:      "Number of entries currently rendered in the display container",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful poll cycle",
		}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_received_total",
			Help:      "Number of webhook deliveries received by event header",
		}, []string{"event"}),
	}

	if reg == nil {
		return m
	}
	m.cycles = register(reg, m.cycles)
	m.cycleDuration = register(reg, m.cycleDuration)
	m.entries = register(reg, m.entries)
	m.lastSuccess = register(reg, m.lastSuccess)
	m.webhooks = register(reg, m.webhooks)
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// CycleSucceeded records a successful cycle that rendered n entries.
func (m *Metrics) CycleSucceeded(d time.Duration, n int, at time.Time) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(ResultSuccess).Inc()
	m.cycleDuration.Observe(d.Seconds())
	m.entries.Set(float64(n))
	m.lastSuccess.Set(float64(at.Unix()))
}

// CycleFailed records a failed cycle.
func (m *Metrics) CycleFailed(d time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(ResultFailure).Inc()
	m.cycleDuration.Observe(d.Seconds())
}

// CycleSkipped records a cycle skipped because another was in flight.
func (m *Metrics) CycleSkipped() {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(ResultSkipped).Inc()
}

// WebhookReceived records one webhook delivery. An empty event is counted
// as "unknown".
func (m *Metrics) WebhookReceived(event string) {
	if m == nil {
		return
	}
	if event == "" {
		event = "unknown"
	}
	m.webhooks.WithLabelValues(event).Inc()
}
