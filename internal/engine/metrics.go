package engine

import "time"

// MetricsRecorder is the engine's observability seam: a per-query
// instrumentation hook backed, in production, by internal/observability's
// Prometheus recorder. Kept as a small interface here so engine never
// needs to import the observability package.
type MetricsRecorder interface {
	RecordQuery(kind string, green bool)
	RecordCacheInsert(kind string, changed bool)
	RecordProducerLatency(kind string, d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordQuery(string, bool)             {}
func (noopMetrics) RecordCacheInsert(string, bool)       {}
func (noopMetrics) RecordProducerLatency(string, time.Duration) {}
