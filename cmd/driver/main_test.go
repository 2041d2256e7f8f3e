package main

import (
	"os"
	"path/filepath"
	"testing"

	"driver/internal/engine"
	"driver/internal/query"
)

func TestMaterializeOutputWritesStoredBytes(t *testing.T) {
	e := engine.New(t.TempDir())
	obj := e.Objects().Store([]byte("hello"))
	outDir := t.TempDir()

	entry := query.WriteOutputEntry{RelPath: "nested/file.txt", Object: obj}
	if err := materializeOutput(e, outDir, entry); err != nil {
		t.Fatalf("materializeOutput: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "nested", "file.txt"))
	if err != nil {
		t.Fatalf("reading materialized file: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", data)
	}
}

func TestMaterializeOutputMissingObjectErrors(t *testing.T) {
	e := engine.New(t.TempDir())
	var missing query.Object
	entry := query.WriteOutputEntry{RelPath: "x.txt", Object: missing}
	if err := materializeOutput(e, t.TempDir(), entry); err == nil {
		t.Fatalf("expected an error for an unstored object")
	}
}
