// Package persistence implements the save/restore contract: every
// cache, the dependency graph, and the object store survive a process
// restart, and the engine resumes as if the prior run's last revision
// had just completed. Every restored key starts the next cycle Green
// at revision 0. Missing or corrupt state is never fatal; it is
// treated as empty and the engine starts that component fresh.
package persistence

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"driver/internal/depgraph"
	"driver/internal/engine"
	"driver/internal/hash"
	"driver/internal/query"

	"go.uber.org/zap"
)

func init() {
	// depgraph.Snapshot[query.Key]'s edges hold the query.Key interface,
	// so gob needs every concrete kind registered to decode it back.
	gob.Register(query.ReadFileKey{})
	gob.Register(query.ListDirectoryKey{})
	gob.Register(query.RunScriptKey{})
	gob.Register(query.MarkdownToHtmlKey{})
	gob.Register(query.MinifyHtmlKey{})
	gob.Register(query.FetchUrlKey{})
}

const (
	depgraphFile       = "depgraph.v1.gob"
	readFileCacheFile  = "cache.v1.read_file.gob"
	listDirCacheFile   = "cache.v1.list_directory.gob"
	runScriptCacheFile = "cache.v1.run_script.gob"
	mdToHtmlCacheFile  = "cache.v1.markdown_to_html.gob"
	minifyHtmlFile     = "cache.v1.minify_html.gob"
	fetchUrlCacheFile  = "cache.v1.fetch_url.gob"
)

// Save mirrors the object store and every cache/graph structure to dir.
// Each file is written to a temporary name and renamed into place so a
// crash mid-save never leaves a half-written file for the next Load.
func Save(ctx context.Context, e *engine.Engine, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persistence: save: %w", err)
	}
	if err := e.Objects().Save(ctx, dir); err != nil {
		return fmt.Errorf("persistence: save objects: %w", err)
	}

	if err := saveGob(dir, depgraphFile, e.Graph().Snapshot()); err != nil {
		return fmt.Errorf("persistence: save depgraph: %w", err)
	}
	if err := saveGob(dir, readFileCacheFile, e.ReadFileCache().Snapshot()); err != nil {
		return fmt.Errorf("persistence: save read_file cache: %w", err)
	}
	if err := saveGob(dir, listDirCacheFile, e.ListDirectoryCache().Snapshot()); err != nil {
		return fmt.Errorf("persistence: save list_directory cache: %w", err)
	}
	if err := saveGob(dir, runScriptCacheFile, e.RunScriptCache().Snapshot()); err != nil {
		return fmt.Errorf("persistence: save run_script cache: %w", err)
	}
	if err := saveGob(dir, mdToHtmlCacheFile, e.MarkdownToHtmlCache().Snapshot()); err != nil {
		return fmt.Errorf("persistence: save markdown_to_html cache: %w", err)
	}
	if err := saveGob(dir, minifyHtmlFile, e.MinifyHtmlCache().Snapshot()); err != nil {
		return fmt.Errorf("persistence: save minify_html cache: %w", err)
	}
	if err := saveGob(dir, fetchUrlCacheFile, e.FetchUrlCache().Snapshot()); err != nil {
		return fmt.Errorf("persistence: save fetch_url cache: %w", err)
	}
	return nil
}

// Load restores state saved by Save into e. Any missing or corrupt
// component is treated as empty rather than fatal: restore must never
// corrupt the engine, but it's fine for an operator to delete one
// stale cache file by hand without breaking the others.
//
// After every cache and the graph are restored, the color map is
// reseeded Green at revision 0 for every key the restored caches
// mention, and the revision counter is set to 1, so the very next
// evaluation cycle treats the restored state as already validated
// once.
func Load(ctx context.Context, e *engine.Engine, dir string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := e.Objects().Load(ctx, dir); err != nil {
		log.Warn("persistence: object store load failed, starting empty", zap.Error(err))
	}

	var greenAtZero []hash.H

	var depSnap depgraph.Snapshot[query.Key]
	if loadGob(dir, depgraphFile, &depSnap, log) {
		e.Graph().Restore(depSnap)
	}

	loadCache(dir, readFileCacheFile, e.ReadFileCache(), &greenAtZero, log)
	loadCache(dir, listDirCacheFile, e.ListDirectoryCache(), &greenAtZero, log)
	loadCache(dir, runScriptCacheFile, e.RunScriptCache(), &greenAtZero, log)
	loadCache(dir, mdToHtmlCacheFile, e.MarkdownToHtmlCache(), &greenAtZero, log)
	loadCache(dir, minifyHtmlFile, e.MinifyHtmlCache(), &greenAtZero, log)
	loadCache(dir, fetchUrlCacheFile, e.FetchUrlCache(), &greenAtZero, log)

	e.Colors().Reset(greenAtZero)
	e.SetRevision(1)
	return nil
}

// loadCache loads one kind's snapshot file, restores it into cache, and
// appends every restored key's hash to greenAtZero. Returns false (and
// leaves cache untouched) when the file is missing or corrupt.
func loadCache[K query.Key, T hash.ToHash](dir, name string, cache *query.Cache[K, T], greenAtZero *[]hash.H, log *zap.Logger) bool {
	var entries []query.Entry[K, T]
	if !loadGob(dir, name, &entries, log) {
		return false
	}
	cache.Restore(entries)
	for _, e := range entries {
		*greenAtZero = append(*greenAtZero, hash.Of(e.Key))
	}
	return true
}

func saveGob(dir, name string, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// loadGob decodes name into v, reporting false (and logging) if the
// file is missing or fails to decode. A decode failure is treated the
// same as a missing file: the corresponding cache simply starts empty.
func loadGob(dir, name string, v interface{}, log *zap.Logger) bool {
	path := filepath.Join(dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("persistence: reading state file failed, treating as empty", zap.String("file", name), zap.Error(err))
		}
		return false
	}
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(v); err != nil {
		log.Warn("persistence: decoding state file failed, treating as empty", zap.String("file", name), zap.Error(err))
		return false
	}
	return true
}
