// Package colormap implements the (Color, Revision) verdict map used by
// the engine to remember, within the current top-level cycle, which
// keys have already been proven up-to-date and which are known stale.
//
// A small enum-plus-map, in the style of a domain event constants
// table.
package colormap

import (
	"sync"

	"driver/internal/hash"
)

type Color int

const (
	Red Color = iota
	Green
)

func (c Color) String() string {
	if c == Green {
		return "Green"
	}
	return "Red"
}

type Verdict struct {
	Color    Color
	Revision uint64
}

// Map is a last-writer-wins (Color, Revision) verdict per key.
type Map struct {
	mu sync.RWMutex
	m  map[hash.H]Verdict
}

func New() *Map {
	return &Map{m: make(map[hash.H]Verdict)}
}

func (m *Map) MarkGreen(k hash.H, r uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[k] = Verdict{Color: Green, Revision: r}
}

func (m *Map) MarkRed(k hash.H, r uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[k] = Verdict{Color: Red, Revision: r}
}

// Get returns the current verdict for k, if any has been recorded.
func (m *Map) Get(k hash.H) (Verdict, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[k]
	return v, ok
}

// All returns a copy of every recorded verdict, for the debug /graph
// HTTP route.
func (m *Map) All() map[hash.H]Verdict {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[hash.H]Verdict, len(m.m))
	for k, v := range m.m {
		out[k] = v
	}
	return out
}

// Reset clears every verdict and reseeds the given keys as Green at
// revision 0. Every key present in the loaded cache starts the next
// cycle Green.
func (m *Map) Reset(greenAtZero []hash.H) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m = make(map[hash.H]Verdict, len(greenAtZero))
	for _, k := range greenAtZero {
		m.m[k] = Verdict{Color: Green, Revision: 0}
	}
}
