package producers

import (
	"driver/internal/query"
)

// HostAPI is the set of primitives the embedded script host exposes to
// user code: ReadFile, ListDirectory, Store, the two derived
// transforms, nested RunScript, and WriteOutput. The actual script
// *language* runtime lives outside this package; this interface is
// what a real embedded host (JS, Lua, Koto) would be implemented
// against.
type HostAPI interface {
	ReadFile(path string) (query.Object, error)
	ListDirectory(path string) (query.PathList, error)
	FileType(path string) (string, error)
	Store(bytes []byte) query.Object
	MarkdownToHtml(input query.Object) (query.Object, error)
	MinifyHtml(input query.Object) (query.Object, error)
	RunTask(path string, args []string) (query.Object, error)
	WriteOutput(relPath string, obj query.Object) error

	// FetchURL adds a network-facing host primitive, modeled concretely
	// as a cacheable query kind guarded by a circuit breaker.
	FetchURL(url string) (query.Object, error)
}

// Script is the minimal contract RunScript evaluates against. Real
// embedded hosts compile and run user source; tests exercise RunScript
// against a plain Go closure implementing this interface, standing in
// for that embedded runtime.
type Script interface {
	Run(host HostAPI, args []string) (query.Object, error)
}

// ScriptFunc adapts a plain function to Script, for tests and for
// simple built-in scripts.
type ScriptFunc func(host HostAPI, args []string) (query.Object, error)

func (f ScriptFunc) Run(host HostAPI, args []string) (query.Object, error) {
	return f(host, args)
}
