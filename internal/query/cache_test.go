package query

import "testing"

func TestCacheInsertFirstTimeNotChanged(t *testing.T) {
	c := NewCache[ReadFileKey, Object]()
	k := ReadFileKey{Path: "a.md"}
	changed := c.Insert(k, Object{1})
	if changed {
		t.Fatalf("first insert must report unchanged")
	}
}

func TestCacheInsertSameValueNotChanged(t *testing.T) {
	c := NewCache[ReadFileKey, Object]()
	k := ReadFileKey{Path: "a.md"}
	c.Insert(k, Object{1})
	if c.Insert(k, Object{1}) {
		t.Fatalf("re-inserting an identical value must not report a change")
	}
}

func TestCacheInsertDifferentValueChanged(t *testing.T) {
	c := NewCache[ReadFileKey, Object]()
	k := ReadFileKey{Path: "a.md"}
	c.Insert(k, Object{1})
	if !c.Insert(k, Object{2}) {
		t.Fatalf("re-inserting a different value must report a change")
	}
}

func TestCacheGetMissing(t *testing.T) {
	c := NewCache[ReadFileKey, Object]()
	if _, ok := c.Get(ReadFileKey{Path: "missing"}); ok {
		t.Fatalf("expected Get on an empty cache to miss")
	}
}

func TestCacheRestoreRoundTrip(t *testing.T) {
	c := NewCache[ReadFileKey, Object]()
	c.Insert(ReadFileKey{Path: "a.md"}, Object{1})
	c.Insert(ReadFileKey{Path: "b.md"}, Object{2})
	snap := c.Snapshot()

	other := NewCache[ReadFileKey, Object]()
	other.Restore(snap)
	if other.Len() != 2 {
		t.Fatalf("expected 2 entries after restore, got %d", other.Len())
	}
	v, ok := other.Get(ReadFileKey{Path: "a.md"})
	if !ok || v != (Object{1}) {
		t.Fatalf("expected restored value to round-trip")
	}
}

func TestCacheIterKeys(t *testing.T) {
	c := NewCache[ReadFileKey, Object]()
	c.Insert(ReadFileKey{Path: "a.md"}, Object{1})
	c.Insert(ReadFileKey{Path: "b.md"}, Object{2})
	keys := c.IterKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}
