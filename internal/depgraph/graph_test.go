package depgraph

import (
	"testing"

	"driver/internal/hash"
)

type testKey string

func (k testKey) RunHash(h *hash.Hasher) {
	h.WriteTag("depgraph.testKey")
	h.WriteString(string(k))
}

func h(b byte) hash.H {
	var out hash.H
	out[0] = b
	return out
}

func TestOutgoingNeverSeenReturnsFalse(t *testing.T) {
	g := New[testKey]()
	if _, ok := g.Outgoing(h(1)); ok {
		t.Fatalf("expected unseen key to report not-ok")
	}
}

func TestAddDependencyIdempotent(t *testing.T) {
	g := New[testKey]()
	g.AddDependency(h(1), testKey("a"))
	g.AddDependency(h(1), testKey("a"))
	deps, ok := g.Outgoing(h(1))
	if !ok || len(deps) != 1 {
		t.Fatalf("expected exactly one edge after duplicate add, got %v", deps)
	}
}

func TestMarkSeenWithoutEdges(t *testing.T) {
	g := New[testKey]()
	g.MarkSeen(h(1))
	deps, ok := g.Outgoing(h(1))
	if !ok {
		t.Fatalf("expected zero-dependency key to be seen")
	}
	if len(deps) != 0 {
		t.Fatalf("expected no edges, got %v", deps)
	}
}

func TestClearOutgoingKeepsSeen(t *testing.T) {
	g := New[testKey]()
	g.AddDependency(h(1), testKey("a"))
	g.ClearOutgoing(h(1))
	deps, ok := g.Outgoing(h(1))
	if !ok {
		t.Fatalf("expected key to remain seen after clear")
	}
	if len(deps) != 0 {
		t.Fatalf("expected edges cleared, got %v", deps)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	g := New[testKey]()
	g.AddDependency(h(1), testKey("a"))
	g.AddDependency(h(1), testKey("b"))
	g.MarkSeen(h(4))
	snap := g.Snapshot()

	g2 := New[testKey]()
	g2.Restore(snap)
	deps, ok := g2.Outgoing(h(1))
	if !ok || len(deps) != 2 {
		t.Fatalf("expected 2 restored edges, got %v", deps)
	}
	if _, ok := g2.Outgoing(h(4)); !ok {
		t.Fatalf("expected zero-dependency seen key to survive restore")
	}
}
