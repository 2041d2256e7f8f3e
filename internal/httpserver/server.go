// Package httpserver implements the driver's debug introspection
// server: the dependency-graph dump, Prometheus exposition, and a
// liveness check.
package httpserver

import (
	"encoding/json"
	"net/http"

	"driver/internal/engine"
	"driver/internal/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the debug HTTP server's handler builder.
type Server struct {
	engine    *engine.Engine
	collector *observability.Collector
	logger    *zap.Logger
}

// New constructs a Server. collector may be nil, in which case the
// /metrics route is not registered and requests to it get 404.
func New(e *engine.Engine, collector *observability.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{engine: e, collector: collector, logger: logger}
}

// Handler builds the router: GET /graph, GET /metrics, GET /healthz.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Get("/graph", s.graph)
	if s.collector != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.collector.Registry(), promhttp.HandlerOpts{}))
	}
	return r
}

// healthz reports liveness godoc.
//
//	@Summary		Liveness check
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/healthz [get]
func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// graph dumps the dependency graph and color map godoc.
//
//	@Summary		Dependency graph and color-map dump
//	@Description	The live equivalent of the --print-graph CLI flag.
//	@Produce		json
//	@Success		200	{object}	GraphDump
//	@Router			/graph [get]
func (s *Server) graph(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, DumpGraph(s.engine))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Nothing useful to do: headers are already sent.
		return
	}
}
