package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"driver/internal/engine"
	"driver/internal/observability"
)

func TestHealthzReportsOK(t *testing.T) {
	e := engine.New(t.TempDir())
	srv := New(e, nil, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %+v", body)
	}
}

func TestGraphReturnsEmptyDumpForFreshEngine(t *testing.T) {
	e := engine.New(t.TempDir())
	srv := New(e, nil, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/graph")
	if err != nil {
		t.Fatalf("GET /graph: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var dump GraphDump
	if err := json.NewDecoder(resp.Body).Decode(&dump); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(dump.Nodes) != 0 || len(dump.Edges) != 0 {
		t.Fatalf("expected empty graph dump, got %+v", dump)
	}
}

func TestMetricsRouteAbsentWithoutCollector(t *testing.T) {
	e := engine.New(t.TempDir())
	srv := New(e, nil, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 with no collector wired, got %d", resp.StatusCode)
	}
}

func TestMetricsRouteServesPrometheusExposition(t *testing.T) {
	e := engine.New(t.TempDir())
	collector := observability.NewCollector("driver_test_httpserver")
	srv := New(e, collector, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
