package query

import (
	"driver/internal/apperrors"
	"driver/internal/hash"
)

// Object is a handle into the content-addressed store: the SHA-256 of
// the bytes it names. It is the output type of ReadFile, Store,
// MarkdownToHtml, and MinifyHtml.
type Object = hash.H

// PathList is the sorted, deterministic output of ListDirectory.
type PathList []string

func (p PathList) RunHash(h *hash.Hasher) {
	h.WriteTag("query.PathList")
	hash.WriteSortedStringSlice(h, []string(p))
}

// WriteOutputEntry is one queued materialisation produced by a script:
// a destination path relative to the output directory, and the object
// to write there.
type WriteOutputEntry struct {
	RelPath string
	Object  Object
}

func (w WriteOutputEntry) RunHash(h *hash.Hasher) {
	h.WriteTag("query.WriteOutputEntry")
	h.WriteString(w.RelPath)
	h.WriteHash(w.Object)
}

// RunScriptOutput is a script's return value plus its queued output
// writes. The return "value" of a script is itself modelled as an
// Object handle (the script Stores whatever it wants to return), which
// keeps RunScript's output uniformly content-addressed.
type RunScriptOutput struct {
	Value   Object
	Outputs []WriteOutputEntry
}

func (r RunScriptOutput) RunHash(h *hash.Hasher) {
	h.WriteTag("query.RunScriptOutput")
	h.Nested(r.Value)
	hash.WriteSlice(h, r.Outputs)
}

// Result is the Result<T, E> every producer's Output is required to
// be: a cacheable success value, or a cacheable, hashable error.
// Embedding a *apperrors.AppError (rather than a bare error) is what
// makes a failed computation cloneable and hashable.
type Result[T hash.ToHash] struct {
	Value T
	Err   *apperrors.AppError
}

// Ok wraps a successful value.
func Ok[T hash.ToHash](v T) Result[T] { return Result[T]{Value: v} }

// Err wraps a failure. The engine caches the resulting Result whatever
// the error's Kind, Policy and Internal included; apperrors.Kind.Cacheable
// is not consulted.
func Err[T hash.ToHash](err *apperrors.AppError) Result[T] {
	var zero T
	return Result[T]{Value: zero, Err: err}
}

func (r Result[T]) IsErr() bool { return r.Err != nil }

// Unwrap returns the value and a plain error, for callers that just
// want Go-idiomatic (T, error) semantics.
func (r Result[T]) Unwrap() (T, error) {
	if r.Err != nil {
		var zero T
		return zero, r.Err
	}
	return r.Value, nil
}

func (r Result[T]) RunHash(h *hash.Hasher) {
	h.WriteTag("query.Result")
	if r.Err != nil {
		h.WriteTag("err")
		h.Nested(r.Err)
		return
	}
	h.WriteTag("ok")
	h.Nested(r.Value)
}
