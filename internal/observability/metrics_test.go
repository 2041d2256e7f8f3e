package observability

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c *Collector, metricName string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	var total float64
	for _, fam := range families {
		if fam.GetName() != metricName {
			continue
		}
		for _, m := range fam.GetMetric() {
			if m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestRecordQueryIncrementsCounter(t *testing.T) {
	c := NewCollector("driver_test_record_query")
	c.RecordQuery("ReadFile", true)
	c.RecordQuery("ReadFile", false)

	if got := counterValue(t, c, "driver_test_record_query_queries_total"); got != 2 {
		t.Fatalf("expected 2 recorded queries, got %v", got)
	}
}

func TestRecordCacheInsertIncrementsCounter(t *testing.T) {
	c := NewCollector("driver_test_record_cache_insert")
	c.RecordCacheInsert("RunScript", true)

	if got := counterValue(t, c, "driver_test_record_cache_insert_cache_inserts_total"); got != 1 {
		t.Fatalf("expected 1 recorded cache insert, got %v", got)
	}
}

func TestRecordProducerLatencyObserves(t *testing.T) {
	c := NewCollector("driver_test_record_latency")
	c.RecordProducerLatency("FetchUrl", 10*time.Millisecond)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	var found *dto.MetricFamily
	for _, fam := range families {
		if fam.GetName() == "driver_test_record_latency_producer_duration_seconds" {
			found = fam
		}
	}
	if found == nil || len(found.GetMetric()) != 1 {
		t.Fatalf("expected a single histogram sample, got %+v", found)
	}
	if found.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected histogram sample count 1")
	}
}
