package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"driver/internal/engine"
	"driver/internal/query"
)

func writeSrc(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	srcRoot := t.TempDir()
	writeSrc(t, srcRoot, "src/a.txt", "hello")

	e := engine.New(srcRoot)
	rootCtx := engine.RootContext(ctx, e)
	k := query.ReadFileKey{Path: "src/a.txt"}
	first := e.QueryReadFile(rootCtx, k)
	if first.IsErr() {
		t.Fatalf("unexpected error: %v", first.Err)
	}

	stateDir := t.TempDir()
	if err := Save(ctx, e, stateDir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	e2 := engine.New(srcRoot)
	if err := Load(ctx, e2, stateDir, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if e2.CurrentRevision() != 1 {
		t.Fatalf("expected restored revision 1, got %d", e2.CurrentRevision())
	}

	restored, ok := e2.ReadFileCache().Get(k)
	if !ok {
		t.Fatalf("expected restored cache to contain %v", k)
	}
	if restored.Value != first.Value {
		t.Fatalf("restored value %v does not match saved value %v", restored.Value, first.Value)
	}

	rootCtx2 := engine.RootContext(ctx, e2)
	second := e2.QueryReadFile(rootCtx2, k)
	if second.IsErr() {
		t.Fatalf("unexpected error revalidating restored key: %v", second.Err)
	}
	if second.Value != first.Value {
		t.Fatalf("expected revalidated value to match original")
	}
}

func TestLoadMissingStateDirStartsEmpty(t *testing.T) {
	srcRoot := t.TempDir()
	e := engine.New(srcRoot)
	if err := Load(context.Background(), e, filepath.Join(t.TempDir(), "never-existed"), nil); err != nil {
		t.Fatalf("Load of a missing dir must not error: %v", err)
	}
	if e.ReadFileCache().Len() != 0 {
		t.Fatalf("expected empty cache after loading a missing state dir")
	}
	if e.CurrentRevision() != 1 {
		t.Fatalf("expected revision reset to 1 even with no prior state")
	}
}

func TestLoadCorruptCacheFileDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	srcRoot := t.TempDir()
	writeSrc(t, srcRoot, "src/a.txt", "hello")
	writeSrc(t, srcRoot, "src/b.txt", "world")

	e := engine.New(srcRoot)
	rootCtx := engine.RootContext(ctx, e)
	e.QueryReadFile(rootCtx, query.ReadFileKey{Path: "src/a.txt"})
	e.QueryListDirectory(rootCtx, query.ListDirectoryKey{Path: "src"})

	stateDir := t.TempDir()
	if err := Save(ctx, e, stateDir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(stateDir, readFileCacheFile), []byte("not a gob stream"), 0o644); err != nil {
		t.Fatal(err)
	}

	e2 := engine.New(srcRoot)
	if err := Load(ctx, e2, stateDir, nil); err != nil {
		t.Fatalf("Load must degrade gracefully on a corrupt file, got error: %v", err)
	}
	if e2.ReadFileCache().Len() != 0 {
		t.Fatalf("expected corrupt read_file cache to load as empty")
	}
	if e2.ListDirectoryCache().Len() != 1 {
		t.Fatalf("expected the untouched list_directory cache to still restore")
	}
}
