package engine

import (
	"context"
	"fmt"
	"time"

	"driver/internal/colormap"
	"driver/internal/hash"
	"driver/internal/query"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// evaluate records the parent edge, decides recompute vs.
// attempt-validation, and falls back to recompute whenever validation
// doesn't land Green.
func evaluate[K query.Key, T hash.ToHash](c *Context, cache *query.Cache[K, T], sf *singleflight.Group, k K, produce func(*Context, K) T) T {
	e := c.engine
	kh := hash.Of(k)

	stdCtx, span := e.tracer.Start(c.Std(), "query."+k.KeyKind())
	defer span.End()
	callCtx := &Context{ctx: stdCtx, engine: e, parent: c.parent}

	if callCtx.parent != nil {
		e.graph.AddDependency(*callCtx.parent, query.Key(k))
	}

	r := e.CurrentRevision()
	verdict, has := e.colors.Get(kh)

	needRecompute := !has
	if has {
		if k.IsInput() && verdict.Revision < r {
			needRecompute = true
		} else if e.tryMarkGreen(stdCtx, kh) != colormap.Green {
			needRecompute = true
		}
	}

	if !needRecompute {
		if v, ok := cache.Get(k); ok {
			e.log.Debug("query validated green", zap.String("kind", k.KeyKind()))
			e.metrics.RecordQuery(k.KeyKind(), true)
			return v
		}
	}

	e.log.Debug("query recompute", zap.String("kind", k.KeyKind()))
	e.metrics.RecordQuery(k.KeyKind(), false)
	return recompute(callCtx, cache, sf, k, r, kh, produce)
}

// recompute clears k's outgoing edges, re-runs its producer
// (deduplicated per key via singleflight), diffs the new value against
// the cache, and colors accordingly.
func recompute[K query.Key, T hash.ToHash](c *Context, cache *query.Cache[K, T], sf *singleflight.Group, k K, r uint64, kh hash.H, produce func(*Context, K) T) T {
	e := c.engine
	e.graph.ClearOutgoing(kh)
	child := c.withParent(kh)

	start := time.Now()
	vAny, _, _ := sf.Do(kh.String(), func() (interface{}, error) {
		return produce(child, k), nil
	})
	e.metrics.RecordProducerLatency(k.KeyKind(), time.Since(start))
	v := vAny.(T)

	e.graph.MarkSeen(kh)
	changed := cache.Insert(k, v)
	e.metrics.RecordCacheInsert(k.KeyKind(), changed)
	if changed {
		e.colors.MarkRed(kh, r)
	} else {
		e.colors.MarkGreen(kh, r)
	}
	return v
}

// tryMarkGreen attempts to validate k's whole dependency subtree green
// without recomputing k itself. It is not generic: a node's outgoing
// edges are heterogeneous query.Key values (any kind may depend on any
// other), so forcing an unresolved dependency's color requires dynamic
// dispatch over its concrete kind, the one exhaustive type switch this
// algorithm needs, isolated in dispatchQuery.
func (e *Engine) tryMarkGreen(stdCtx context.Context, kh hash.H) colormap.Color {
	deps, ok := e.graph.Outgoing(kh)
	if !ok {
		return colormap.Red
	}
	r := e.CurrentRevision()

	for _, d := range deps {
		dh := hash.Of(d)
		verdict, has := e.colors.Get(dh)
		if has && verdict.Color == colormap.Green && verdict.Revision == r {
			continue
		}
		if has && verdict.Color == colormap.Red {
			return colormap.Red
		}

		if !d.IsInput() {
			if e.tryMarkGreen(stdCtx, dh) == colormap.Green {
				if v2, _ := e.colors.Get(dh); v2.Color == colormap.Green && v2.Revision == r {
					continue
				}
			}
		}

		e.dispatchQuery(stdCtx, d)
		if v2, ok := e.colors.Get(dh); ok && v2.Color == colormap.Green && v2.Revision == r {
			continue
		}
		return colormap.Red
	}

	e.colors.MarkGreen(kh, r)
	return colormap.Green
}

// dispatchQuery forces d's color to be established under the current
// revision by evaluating it as a fresh root query (no parent edge is
// recorded: d's edge into whatever node is validating already exists
// from its prior evaluation).
func (e *Engine) dispatchQuery(stdCtx context.Context, d query.Key) {
	root := RootContext(stdCtx, e)
	switch kk := d.(type) {
	case query.ReadFileKey:
		e.QueryReadFile(root, kk)
	case query.ListDirectoryKey:
		e.QueryListDirectory(root, kk)
	case query.RunScriptKey:
		e.QueryRunScript(root, kk)
	case query.MarkdownToHtmlKey:
		e.QueryMarkdownToHtml(root, kk)
	case query.MinifyHtmlKey:
		e.QueryMinifyHtml(root, kk)
	case query.FetchUrlKey:
		e.QueryFetchUrl(root, kk)
	default:
		panic(fmt.Sprintf("engine: unknown query kind %T", d))
	}
}
