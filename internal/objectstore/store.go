// Package objectstore implements the content-addressed, deduplicated
// blob store: SHA-256 keys, insert-only semantics, and a two-level hex
// shard on-disk layout compressed with a streaming zstd encoder.
package objectstore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"driver/internal/hash"

	"github.com/cenkalti/backoff/v4"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// Store is the in-memory object table; Save/Load mirror it to disk.
type Store struct {
	mu      sync.RWMutex
	objects map[hash.H][]byte
	log     *zap.Logger
}

func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{objects: make(map[hash.H][]byte), log: log}
}

// Store computes O = sha256(bytes), inserts (O, bytes) if absent, and
// returns O. Idempotent: re-storing identical bytes is a no-op beyond
// the hash computation.
func (s *Store) Store(b []byte) hash.H {
	o := hash.H(sha256.Sum256(b))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[o]; !exists {
		cp := make([]byte, len(b))
		copy(cp, b)
		s.objects[o] = cp
	}
	return o
}

// StoreRaw inserts bytes under a caller-asserted hash, without
// recomputing it. Used only while restoring from disk, where the
// directory name already encodes the hash.
func (s *Store) StoreRaw(o hash.H, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[o]; exists {
		return
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	s.objects[o] = cp
}

// Get looks up an object's bytes, concurrent-read safe.
func (s *Store) Get(o hash.H) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[o]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, true
}

// ForEach iterates every entry, for persistence. f must not mutate the
// store.
func (s *Store) ForEach(f func(o hash.H, b []byte)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for o, b := range s.objects {
		f(o, b)
	}
}

// Len reports how many distinct objects the store currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func shardPath(dir string, o hash.H) string {
	hx := o.String()
	return filepath.Join(dir, hx[:2], hx[2:])
}

// Save mirrors every in-memory object to objects/XX/YYYY… under dir,
// compressed with a streaming zstd encoder. Objects already present
// on-disk are skipped (identified by their unique hash, never rewritten).
// Transient write failures are retried with exponential backoff before
// surfacing an IO error.
func (s *Store) Save(ctx context.Context, dir string) error {
	root := filepath.Join(dir, "objects")
	var firstErr error
	s.ForEach(func(o hash.H, b []byte) {
		if firstErr != nil {
			return
		}
		path := shardPath(root, o)
		if _, err := os.Stat(path); err == nil {
			return
		}
		err := writeWithRetry(ctx, path, b)
		if err != nil {
			firstErr = fmt.Errorf("objectstore: save %s: %w", o, err)
		}
	})
	return firstErr
}

func writeWithRetry(ctx context.Context, path string, raw []byte) error {
	op := func() error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		tmp := path + ".tmp"
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		if _, err := enc.Write(raw); err != nil {
			enc.Close()
			f.Close()
			os.Remove(tmp)
			return err
		}
		if err := enc.Close(); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		if err := f.Close(); err != nil {
			os.Remove(tmp)
			return err
		}
		return os.Rename(tmp, path)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	return backoff.Retry(op, b)
}

// Load enumerates objects/XX/YYYY… under dir, decodes each shard's hex
// name into an Object handle, decompresses its contents, and inserts it
// via StoreRaw. A missing objects/ directory is not an error: it just
// means an empty store.
func (s *Store) Load(ctx context.Context, dir string) error {
	root := filepath.Join(dir, "objects")
	entries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("objectstore: load: %w", err)
	}

	for _, shard := range entries {
		if !shard.IsDir() {
			continue
		}
		shardDir := filepath.Join(root, shard.Name())
		files, err := os.ReadDir(shardDir)
		if err != nil {
			return fmt.Errorf("objectstore: load shard %s: %w", shard.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			hx := shard.Name() + f.Name()
			o, err := hash.FromHex(hx)
			if err != nil {
				s.log.Warn("objectstore: skipping malformed shard entry", zap.String("name", hx), zap.Error(err))
				continue
			}
			raw, err := readZstd(filepath.Join(shardDir, f.Name()))
			if err != nil {
				return fmt.Errorf("objectstore: load object %s: %w", o, err)
			}
			s.StoreRaw(o, raw)
		}
	}
	return nil
}

func readZstd(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
