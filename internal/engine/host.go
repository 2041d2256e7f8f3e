package engine

import (
	"path/filepath"
	"strings"

	"driver/internal/apperrors"
	"driver/internal/producers"
	"driver/internal/query"
)

// hostAdapter implements producers.HostAPI by closing over a non-owning
// *Context handle to the engine, in place of a thread-local/task-local
// pointer to the engine.
type hostAdapter struct {
	ctx     *Context
	outputs []query.WriteOutputEntry
}

func (h *hostAdapter) ReadFile(path string) (query.Object, error) {
	return h.ctx.Engine().QueryReadFile(h.ctx, query.ReadFileKey{Path: path}).Unwrap()
}

func (h *hostAdapter) ListDirectory(path string) (query.PathList, error) {
	return h.ctx.Engine().QueryListDirectory(h.ctx, query.ListDirectoryKey{Path: path}).Unwrap()
}

// FileType is a direct, uncached filesystem check rather than its own
// query kind: unlike ReadFile/ListDirectory, a script never treats a
// FileType result as a value worth pruning downstream work against, so
// there is no red/green bookkeeping to gain by caching it.
func (h *hostAdapter) FileType(path string) (string, error) {
	return producers.FileType(h.ctx.Engine().root, path)
}

func (h *hostAdapter) FetchURL(url string) (query.Object, error) {
	return h.ctx.Engine().QueryFetchUrl(h.ctx, query.FetchUrlKey{URL: url}).Unwrap()
}

func (h *hostAdapter) Store(b []byte) query.Object {
	return h.ctx.Engine().Objects().Store(b)
}

func (h *hostAdapter) MarkdownToHtml(input query.Object) (query.Object, error) {
	return h.ctx.Engine().QueryMarkdownToHtml(h.ctx, query.MarkdownToHtmlKey{Input: input}).Unwrap()
}

func (h *hostAdapter) MinifyHtml(input query.Object) (query.Object, error) {
	return h.ctx.Engine().QueryMinifyHtml(h.ctx, query.MinifyHtmlKey{Input: input}).Unwrap()
}

func (h *hostAdapter) RunTask(path string, args []string) (query.Object, error) {
	out, err := h.ctx.Engine().QueryRunScript(h.ctx, query.RunScriptKey{Path: path, Args: args}).Unwrap()
	if err != nil {
		return query.Object{}, err
	}
	return out.Value, nil
}

// WriteOutput queues a materialisation rather than writing immediately,
// so RunScript's value stays a pure function of its inputs; the
// top-level driver flushes the queue to disk after the root query
// returns. A path that escapes the output root is rejected here,
// synchronously, as a Policy error.
func (h *hostAdapter) WriteOutput(relPath string, obj query.Object) error {
	if !isCleanRelPath(relPath) {
		return apperrors.NewPolicy("WriteOutput: path escapes output root: " + relPath)
	}
	h.outputs = append(h.outputs, query.WriteOutputEntry{RelPath: relPath, Object: obj})
	return nil
}

func isCleanRelPath(p string) bool {
	if p == "" || filepath.IsAbs(p) {
		return false
	}
	cleaned := filepath.ToSlash(filepath.Clean(p))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return false
	}
	return true
}

var _ producers.HostAPI = (*hostAdapter)(nil)
