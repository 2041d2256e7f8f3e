package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher drives --watch mode: it watches a directory tree and, on any
// write/create/rename/remove event, debounces briefly and invokes
// onChange.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stopCh  chan struct{}

	mu      sync.Mutex
	pending *time.Timer
}

// NewWatcher recursively watches every directory under root.
func NewWatcher(root string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addRecursive(fw, root); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{watcher: fw, logger: logger, stopCh: make(chan struct{})}, nil
}

func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}

// Run blocks, invoking onChange (debounced by 100ms) after each burst
// of filesystem activity, until Stop is called.
func (w *Watcher) Run(onChange func()) {
	const debounce = 100 * time.Millisecond
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.mu.Lock()
			if w.pending != nil {
				w.pending.Stop()
			}
			w.pending = time.AfterFunc(debounce, onChange)
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch: filesystem watcher error", zap.Error(err))
		}
	}
}

// Stop releases the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}
