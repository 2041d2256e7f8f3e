// Command driver evaluates a build script as the root RunScript query
// and materialises its queued outputs to disk, re-running on a
// red/green incremental basis across invocations via persisted state.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"driver/internal/config"
	"driver/internal/di"
	"driver/internal/engine"
	"driver/internal/httpserver"
	"driver/internal/observability"
	"driver/internal/persistence"
	"driver/internal/query"

	"go.uber.org/zap"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to an optional driver.yaml")
		printGraph = flag.Bool("print-graph", false, "print the dependency graph and color map after the run")
		watch      = flag.Bool("watch", false, "re-run on source-tree changes")
		debugAddr  = flag.String("debug-addr", "", "address to serve the debug HTTP server on (overrides config)")
	)
	flag.Parse()
	if flag.NArg() > 0 {
		_ = os.Setenv("DRIVER_SCRIPT", flag.Arg(0))
	}

	if err := run(*configPath, *printGraph, *watch, *debugAddr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, printGraph, watchFlag bool, debugAddrFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if watchFlag {
		cfg.Watch = true
	}
	if debugAddrFlag != "" {
		cfg.DebugAddr = debugAddrFlag
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := di.InitializeApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer app.Tracing.Shutdown(ctx)

	if err := persistence.Load(ctx, app.Engine, cfg.CacheDir, logger); err != nil {
		return fmt.Errorf("loading persisted state: %w", err)
	}

	var httpSrv *http.Server
	if cfg.DebugAddr != "" {
		httpSrv = &http.Server{Addr: cfg.DebugAddr, Handler: app.Server.Handler()}
		go func() {
			logger.Info("debug server listening", zap.String("addr", cfg.DebugAddr))
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("debug server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
	}

	runOnce := func() error {
		if err := evaluateAndMaterialize(ctx, app, cfg, logger); err != nil {
			logger.Error("build failed", zap.Error(err))
			return err
		}
		if printGraph {
			printGraphDump(app)
		}
		if err := persistence.Save(ctx, app.Engine, cfg.CacheDir); err != nil {
			logger.Error("saving persisted state", zap.Error(err))
		}
		return nil
	}

	if !cfg.Watch {
		return runOnce()
	}

	if err := runOnce(); err != nil {
		logger.Error("initial build failed", zap.Error(err))
	}

	watcher, err := newSourceWatcher(cfg, logger, app, runOnce)
	if err != nil {
		return fmt.Errorf("starting watch mode: %w", err)
	}
	defer watcher.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")
	return nil
}

func evaluateAndMaterialize(ctx context.Context, app *di.App, cfg *config.Config, logger *zap.Logger) error {
	e := app.Engine
	rc := engine.RootContext(ctx, e)
	key := query.RunScriptKey{Path: cfg.ScriptPath}
	result := e.QueryRunScript(rc, key)
	if result.IsErr() {
		return fmt.Errorf("running %s: %w", cfg.ScriptPath, result.Err)
	}

	for _, entry := range result.Value.Outputs {
		if err := materializeOutput(e, cfg.OutDir, entry); err != nil {
			return fmt.Errorf("writing output %s: %w", entry.RelPath, err)
		}
	}
	logger.Info("build complete",
		zap.Int("outputs", len(result.Value.Outputs)),
		zap.Uint64("revision", e.CurrentRevision()),
	)
	return nil
}

func materializeOutput(e *engine.Engine, outDir string, entry query.WriteOutputEntry) error {
	data, ok := e.Objects().Get(entry.Object)
	if !ok {
		return fmt.Errorf("object %s referenced by output not found in store", entry.Object)
	}
	dest := filepath.Join(outDir, filepath.FromSlash(entry.RelPath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func printGraphDump(app *di.App) {
	dump := httpserver.DumpGraph(app.Engine)
	for _, n := range dump.Nodes {
		fmt.Printf("%s\t%s\t%s@%d\n", n.Hash, n.Kind, n.Color, n.Revision)
	}
	for _, edge := range dump.Edges {
		fmt.Printf("%s -> %s\n", edge.From, edge.To)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	environment := "production"
	if cfg.LogLevel == "debug" {
		environment = "development"
	}
	return observability.NewLogger(environment, cfg.LogLevel)
}

// newSourceWatcher starts a config.Watcher over cfg.SourceRoot that
// bumps the engine's revision and re-runs the build on every debounced
// change, logging (but not exiting on) a failed re-run.
func newSourceWatcher(cfg *config.Config, logger *zap.Logger, app *di.App, runOnce func() error) (*config.Watcher, error) {
	w, err := config.NewWatcher(cfg.SourceRoot, logger)
	if err != nil {
		return nil, err
	}
	go w.Run(func() {
		app.Engine.BumpRevision()
		logger.Info("source change detected, rebuilding", zap.Uint64("revision", app.Engine.CurrentRevision()))
		if err := runOnce(); err != nil {
			logger.Error("rebuild failed", zap.Error(err))
		}
	})
	return w, nil
}
