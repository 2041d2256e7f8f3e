// Package query defines the tagged union of query kinds (QueryKey),
// their outputs, and the generic typed cache that backs each kind.
//
// One struct per operation, in the style of a command/query handler;
// the kinds with path or URL parameters carry a Validate() method.
// Dispatch uses Go generics plus a single exhaustive type switch in the
// engine package; the only other runtime type assertion is the one
// that unwraps singleflight's interface{} result.
package query

import (
	"driver/internal/hash"

	"github.com/go-playground/validator/v10"
)

// Kind tags identify each variant of the QueryKey tagged union.
const (
	KindReadFile       = "ReadFile"
	KindListDirectory  = "ListDirectory"
	KindRunScript      = "RunScript"
	KindMarkdownToHtml = "MarkdownToHtml"
	KindMinifyHtml     = "MinifyHtml"
	KindFetchUrl       = "FetchUrl"
)

// Key is any concrete query-parameter struct: hashable, equatable
// (via its hash), cloneable (a plain value), and self-classifying.
type Key interface {
	hash.ToHash
	KeyKind() string
	// IsInput reports whether this key observes the outside world and
	// must therefore be re-evaluated (never just validated green) once
	// the revision has advanced past its last observation.
	IsInput() bool
}

var validate = validator.New()

// ReadFileKey reads a single file's bytes into the object store.
type ReadFileKey struct {
	Path string `validate:"required"`
}

func (k ReadFileKey) KeyKind() string { return KindReadFile }
func (k ReadFileKey) IsInput() bool   { return true }
func (k ReadFileKey) RunHash(h *hash.Hasher) {
	h.WriteTag("query.ReadFileKey")
	h.WriteString(k.Path)
}
func (k ReadFileKey) Validate() error { return validate.Struct(k) }

// ListDirectoryKey lists a directory's direct children.
type ListDirectoryKey struct {
	Path string `validate:"required"`
}

func (k ListDirectoryKey) KeyKind() string { return KindListDirectory }
func (k ListDirectoryKey) IsInput() bool   { return true }
func (k ListDirectoryKey) RunHash(h *hash.Hasher) {
	h.WriteTag("query.ListDirectoryKey")
	h.WriteString(k.Path)
}
func (k ListDirectoryKey) Validate() error { return validate.Struct(k) }

// RunScriptKey evaluates a user script with optional arguments in the
// embedded host (out of scope; see producers.HostAPI).
type RunScriptKey struct {
	Path string   `validate:"required"`
	Args []string `validate:"omitempty,dive,required"`
}

func (k RunScriptKey) KeyKind() string { return KindRunScript }
func (k RunScriptKey) IsInput() bool   { return false }
func (k RunScriptKey) RunHash(h *hash.Hasher) {
	h.WriteTag("query.RunScriptKey")
	h.WriteString(k.Path)
	hash.WriteStringSlice(h, k.Args)
}
func (k RunScriptKey) Validate() error { return validate.Struct(k) }

// MarkdownToHtmlKey transforms a Markdown object into an HTML object.
type MarkdownToHtmlKey struct {
	Input Object
}

func (k MarkdownToHtmlKey) KeyKind() string { return KindMarkdownToHtml }
func (k MarkdownToHtmlKey) IsInput() bool   { return false }
func (k MarkdownToHtmlKey) RunHash(h *hash.Hasher) {
	h.WriteTag("query.MarkdownToHtmlKey")
	h.WriteHash(k.Input)
}

// MinifyHtmlKey minifies an HTML object.
type MinifyHtmlKey struct {
	Input Object
}

func (k MinifyHtmlKey) KeyKind() string { return KindMinifyHtml }
func (k MinifyHtmlKey) IsInput() bool   { return false }
func (k MinifyHtmlKey) RunHash(h *hash.Hasher) {
	h.WriteTag("query.MinifyHtmlKey")
	h.WriteHash(k.Input)
}

// FetchUrlKey fetches a remote URL into the object store. HTTP caching
// headers (ETag, freshness lifetime) are left aside since revalidation
// already comes for free from the red/green protocol; requests go
// through a circuit breaker instead of manual retry/backoff.
type FetchUrlKey struct {
	URL string `validate:"required,url"`
}

func (k FetchUrlKey) KeyKind() string { return KindFetchUrl }
func (k FetchUrlKey) IsInput() bool   { return true }
func (k FetchUrlKey) RunHash(h *hash.Hasher) {
	h.WriteTag("query.FetchUrlKey")
	h.WriteString(k.URL)
}
func (k FetchUrlKey) Validate() error { return validate.Struct(k) }
