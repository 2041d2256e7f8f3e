package producers

import (
	"os"
	"path/filepath"
	"sort"

	"driver/internal/apperrors"
)

// ReadFile reads the full contents of the file at path, rooted under
// root. A thin wrapper whose only job is translating OS errors into
// the engine's IO error kind so failures are cacheable.
func ReadFile(root, path string) ([]byte, error) {
	full := filepath.Join(root, path)
	b, err := os.ReadFile(full)
	if err != nil {
		return nil, apperrors.NewIO("read "+path, err)
	}
	return b, nil
}

// ListDirectory lists the direct children of path (rooted under root),
// sorted for determinism, skipping anything Ignore excludes.
func ListDirectory(root, path string, ig *Ignore) ([]string, error) {
	full := filepath.Join(root, path)
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, apperrors.NewIO("list "+path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		rel := filepath.Join(path, e.Name())
		if ig.Match(rel, e.IsDir()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// FileType classifies path (rooted under root) for the FileType host
// primitive.
func FileType(root, path string) (string, error) {
	full := filepath.Join(root, path)
	info, err := os.Lstat(full)
	if err != nil {
		return "", apperrors.NewIO("stat "+path, err)
	}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return "symlink", nil
	case info.IsDir():
		return "dir", nil
	case info.Mode().IsRegular():
		return "file", nil
	default:
		return "unknown", nil
	}
}
