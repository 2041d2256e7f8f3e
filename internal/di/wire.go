//go:build wireinject

// Package di wires together config, observability, the engine, and the
// debug HTTP server into one App for cmd/driver's entrypoint.
// ProvideTracerProvider/ProvideCollector each construct one service,
// rather than one call returning a bag of services.
package di

import (
	"context"
	"path/filepath"

	"driver/internal/config"
	"driver/internal/engine"
	"driver/internal/httpserver"
	"driver/internal/observability"
	"driver/internal/producers"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// App is every long-lived object cmd/driver's main needs a handle on.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Tracing *observability.TracerProvider
	Metrics *observability.Collector
	Engine  *engine.Engine
	Server  *httpserver.Server
}

func ProvideIgnore(cfg *config.Config) (*producers.Ignore, error) {
	if cfg.IgnoreFile == "" {
		return producers.NoIgnore(), nil
	}
	return producers.LoadIgnore(filepath.Join(cfg.SourceRoot, cfg.IgnoreFile))
}

func ProvideTracerProvider(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	return observability.NewTracerProvider(ctx, observability.TracingConfig{
		ServiceName: "driver",
		Enabled:     cfg.EnableTracing,
	})
}

func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("driver")
}

func ProvideEngine(cfg *config.Config, logger *zap.Logger, tracing *observability.TracerProvider, collector *observability.Collector, ignore *producers.Ignore) *engine.Engine {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithTracer(tracing.Tracer()),
		engine.WithIgnore(ignore),
	}
	if collector != nil {
		opts = append(opts, engine.WithMetrics(collector))
	}
	return engine.New(cfg.SourceRoot, opts...)
}

func ProvideServer(e *engine.Engine, collector *observability.Collector, logger *zap.Logger) *httpserver.Server {
	return httpserver.New(e, collector, logger)
}

var Set = wire.NewSet(
	ProvideIgnore,
	ProvideTracerProvider,
	ProvideCollector,
	ProvideEngine,
	ProvideServer,
	wire.Struct(new(App), "*"),
)

// InitializeApp wires an App from an already-loaded Config. Config is
// loaded ahead of wire.Build (rather than provided as part of Set)
// because it needs a YAML path argument the other providers don't
// share.
func InitializeApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	wire.Build(Set)
	return nil, nil
}
