// Package observability wires the driver's logging, metrics, and
// tracing stack: zap, Prometheus, and OpenTelemetry.
package observability

import (
	"time"

	"driver/internal/engine"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a Prometheus-backed engine.MetricsRecorder: a single
// struct of pre-registered Counter/HistogramVec fields, registered
// against a dedicated, non-global Registry so tests can create more
// than one without a "duplicate metrics collector registration
// attempted" panic.
type Collector struct {
	registry *prometheus.Registry

	QueriesTotal    *prometheus.CounterVec
	CacheChanged    *prometheus.CounterVec
	ProducerLatency *prometheus.HistogramVec
}

// NewCollector creates a Collector registered against its own registry
// (never the global one), so multiple Engines in the same process, or
// in the same test binary, never collide on metric names.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	queriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of query evaluations, by kind and validated-green outcome.",
		},
		[]string{"kind", "green"},
	)
	cacheChanged := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_inserts_total",
			Help:      "Total number of cache inserts, by kind and whether the value changed.",
		},
		[]string{"kind", "changed"},
	)
	producerLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "producer_duration_seconds",
			Help:      "Producer invocation latency, by query kind.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	registry.MustRegister(queriesTotal, cacheChanged, producerLatency)

	return &Collector{
		registry:        registry,
		QueriesTotal:    queriesTotal,
		CacheChanged:    cacheChanged,
		ProducerLatency: producerLatency,
	}
}

// Registry exposes the Prometheus registry for the /metrics HTTP route.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// RecordQuery implements engine.MetricsRecorder.
func (c *Collector) RecordQuery(kind string, green bool) {
	c.QueriesTotal.WithLabelValues(kind, boolLabel(green)).Inc()
}

// RecordCacheInsert implements engine.MetricsRecorder.
func (c *Collector) RecordCacheInsert(kind string, changed bool) {
	c.CacheChanged.WithLabelValues(kind, boolLabel(changed)).Inc()
}

// RecordProducerLatency implements engine.MetricsRecorder.
func (c *Collector) RecordProducerLatency(kind string, d time.Duration) {
	c.ProducerLatency.WithLabelValues(kind).Observe(d.Seconds())
}

var _ engine.MetricsRecorder = (*Collector)(nil)
