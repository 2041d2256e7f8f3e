// Package engine implements the demand-driven query engine: the
// query/recompute/validate algorithm, parallel evaluation across
// independent query kinds, and the wiring between the dependency
// graph, color map, object store, and per-kind typed caches.
//
// Each query kind dispatches through validate -> recompute-or-
// validate-green -> cache -> color, wrapped in a common logging,
// metrics, and tracing layer.
package engine

import (
	"net/http"
	"sync/atomic"
	"time"

	"driver/internal/colormap"
	"driver/internal/depgraph"
	"driver/internal/objectstore"
	"driver/internal/producers"
	"driver/internal/query"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Engine owns every per-kind cache, the shared dependency graph, color
// map, and object store, and the singleflight groups that give Model B
// its "at most one producer invocation per (k, revision)" guarantee.
type Engine struct {
	objects  *objectstore.Store
	graph    *depgraph.Graph[query.Key]
	colors   *colormap.Map
	revision uint64

	log     *zap.Logger
	tracer  trace.Tracer
	metrics MetricsRecorder

	root    string
	ignore  *producers.Ignore
	scripts map[string]producers.Script
	breaker *gobreaker.CircuitBreaker

	readFile        *query.Cache[query.ReadFileKey, query.Result[query.Object]]
	readFileGroup   singleflight.Group
	listDir         *query.Cache[query.ListDirectoryKey, query.Result[query.PathList]]
	listDirGroup    singleflight.Group
	runScript       *query.Cache[query.RunScriptKey, query.Result[query.RunScriptOutput]]
	runScriptGroup  singleflight.Group
	mdToHtml        *query.Cache[query.MarkdownToHtmlKey, query.Result[query.Object]]
	mdToHtmlGroup   singleflight.Group
	minifyHtml      *query.Cache[query.MinifyHtmlKey, query.Result[query.Object]]
	minifyHtmlGroup singleflight.Group
	fetchUrl        *query.Cache[query.FetchUrlKey, query.Result[query.Object]]
	fetchUrlGroup   singleflight.Group

	httpClient *http.Client
}

// Option configures an Engine at construction time.
type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithIgnore(ig *producers.Ignore) Option {
	return func(e *Engine) { e.ignore = ig }
}

func WithScript(path string, s producers.Script) Option {
	return func(e *Engine) {
		if e.scripts == nil {
			e.scripts = make(map[string]producers.Script)
		}
		e.scripts[path] = s
	}
}

func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(e *Engine) { e.breaker = cb }
}

// New constructs an Engine rooted at root (the directory ReadFile and
// ListDirectory paths are resolved against) with no persisted state.
func New(root string, opts ...Option) *Engine {
	e := &Engine{
		objects: objectstore.New(nil),
		graph:   depgraph.New[query.Key](),
		colors:  colormap.New(),
		root:    root,
		ignore:  producers.NoIgnore(),
		scripts: make(map[string]producers.Script),

		readFile:   query.NewCache[query.ReadFileKey, query.Result[query.Object]](),
		listDir:    query.NewCache[query.ListDirectoryKey, query.Result[query.PathList]](),
		runScript:  query.NewCache[query.RunScriptKey, query.Result[query.RunScriptOutput]](),
		mdToHtml:   query.NewCache[query.MarkdownToHtmlKey, query.Result[query.Object]](),
		minifyHtml: query.NewCache[query.MinifyHtmlKey, query.Result[query.Object]](),
		fetchUrl:   query.NewCache[query.FetchUrlKey, query.Result[query.Object]](),

		log:        zap.NewNop(),
		tracer:     otel.Tracer("driver/engine"),
		breaker:    producers.NewNetworkBreaker("driver.fetchUrl"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = noopMetrics{}
	}
	return e
}

// Objects exposes the object store for producers and persistence.
func (e *Engine) Objects() *objectstore.Store { return e.objects }

// Graph exposes the dependency graph, mainly for the debug /graph route.
func (e *Engine) Graph() *depgraph.Graph[query.Key] { return e.graph }

// Colors exposes the color map, mainly for the debug /graph route.
func (e *Engine) Colors() *colormap.Map { return e.colors }

// CurrentRevision returns the revision the engine is currently
// evaluating under.
func (e *Engine) CurrentRevision() uint64 { return atomic.LoadUint64(&e.revision) }

// BumpRevision advances the revision counter between runs. Must never
// be called mid-evaluation.
func (e *Engine) BumpRevision() uint64 { return atomic.AddUint64(&e.revision, 1) }

// SetRevision pins the revision counter directly, used by persistence
// when restoring state (revision is set to 1 after the color map is
// reseeded Green at revision 0).
func (e *Engine) SetRevision(r uint64) { atomic.StoreUint64(&e.revision, r) }

// The accessors below expose each per-kind cache for persistence.Save /
// persistence.Load, which must serialize and restore every cache
// independently (gob needs a concrete instantiated type per kind).

func (e *Engine) ReadFileCache() *query.Cache[query.ReadFileKey, query.Result[query.Object]] {
	return e.readFile
}

func (e *Engine) ListDirectoryCache() *query.Cache[query.ListDirectoryKey, query.Result[query.PathList]] {
	return e.listDir
}

func (e *Engine) RunScriptCache() *query.Cache[query.RunScriptKey, query.Result[query.RunScriptOutput]] {
	return e.runScript
}

func (e *Engine) MarkdownToHtmlCache() *query.Cache[query.MarkdownToHtmlKey, query.Result[query.Object]] {
	return e.mdToHtml
}

func (e *Engine) MinifyHtmlCache() *query.Cache[query.MinifyHtmlKey, query.Result[query.Object]] {
	return e.minifyHtml
}

func (e *Engine) FetchUrlCache() *query.Cache[query.FetchUrlKey, query.Result[query.Object]] {
	return e.fetchUrl
}
