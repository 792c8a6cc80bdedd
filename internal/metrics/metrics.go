// Package metrics records ingest counters on a private Prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for the aggregation duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns the ingest metrics of one process run.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	matchesProcessed    prometheus.Counter
	matchesSkipped      prometheus.Counter
	eventsRead          prometheus.Counter
	dribbles            prometheus.Counter
	dangerDribbles      prometheus.Counter
	anomalies           *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
}

// NewManager creates a Manager. Without WithPrometheusRegistry it uses a fresh
// registry, never the global default.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "soccermetrics",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)
	m.matchesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "matches_processed_total",
		Help:      "Matches aggregated and stored.",
	})
	m.matchesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "matches_skipped_total",
		Help:      "Matches skipped because they were already stored.",
	})
	m.eventsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_read_total",
		Help:      "Feed events read.",
	})
	m.dribbles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "dribbles_total",
		Help:      "Dribble attempts seen.",
	})
	m.dangerDribbles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "danger_dribbles_total",
		Help:      "Completed dribbles followed by a team shot inside the window.",
	})
	m.anomalies = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "playing_time_anomalies_total",
		Help:      "Playing time data-integrity anomalies by kind.",
	}, []string{"kind"})
	m.aggregationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "match_aggregation_seconds",
		Help:      "Time spent aggregating one match.",
		Buckets:   m.histogramBuckets,
	})
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveMatch records the outputs of one aggregated match.
func (m *Manager) ObserveMatch(res *model.MatchResult, took time.Duration) {
	if res == nil {
		return
	}
	m.matchesProcessed.Inc()
	m.eventsRead.Add(float64(res.Summary.EventCount))
	m.dribbles.Add(float64(len(res.Dribbles)))
	for _, d := range res.Dribbles {
		if d.IsDanger {
			m.dangerDribbles.Inc()
		}
	}
	for _, a := range res.Anomalies {
		m.anomalies.WithLabelValues(string(a.Kind)).Inc()
	}
	m.aggregationDuration.Observe(took.Seconds())
}

// MatchSkipped records a match that was already stored.
func (m *Manager) MatchSkipped() {
	m.matchesSkipped.Inc()
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
