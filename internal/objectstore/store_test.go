package objectstore

import (
	"context"
	"testing"
)

func TestStoreIsIdempotentAndContentAddressed(t *testing.T) {
	s := New(nil)
	o1 := s.Store([]byte("hello"))
	o2 := s.Store([]byte("hello"))
	if o1 != o2 {
		t.Fatalf("expected identical content to yield identical object handle")
	}
	if s.Len() != 1 {
		t.Fatalf("expected deduplication, got %d objects", s.Len())
	}
}

func TestGetMissing(t *testing.T) {
	s := New(nil)
	if _, ok := s.Get([32]byte{}); ok {
		t.Fatalf("expected miss on empty store")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(nil)
	o := s.Store([]byte("round trip contents"))
	s.Store([]byte("a second distinct object"))

	if err := s.Save(context.Background(), dir); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := New(nil)
	if err := restored.Load(context.Background(), dir); err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored.Len() != 2 {
		t.Fatalf("expected 2 objects restored, got %d", restored.Len())
	}
	b, ok := restored.Get(o)
	if !ok || string(b) != "round trip contents" {
		t.Fatalf("expected restored bytes to round-trip, got %q ok=%v", b, ok)
	}
}

func TestLoadMissingDirIsNotError(t *testing.T) {
	s := New(nil)
	if err := s.Load(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("expected no error loading an empty cache dir, got %v", err)
	}
}

func TestStoreRawSkipsExisting(t *testing.T) {
	s := New(nil)
	o := s.Store([]byte("original"))
	s.StoreRaw(o, []byte("should not replace"))
	b, _ := s.Get(o)
	if string(b) != "original" {
		t.Fatalf("expected StoreRaw to not overwrite an existing entry, got %q", b)
	}
}
