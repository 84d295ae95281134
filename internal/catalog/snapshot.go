package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Snapshot holds the current Store behind an atomic pointer so reloads
// swap in a fully-built replacement without locking the read path.
// In-flight queries keep the store they started with.
type Snapshot struct {
	store atomic.Pointer[Store]
}

// NewSnapshot creates a snapshot holding the given store.
func NewSnapshot(store *Store) *Snapshot {
	s := &Snapshot{}
	s.store.Store(store)
	return s
}

// Store returns the current store.
func (s *Snapshot) Store() *Store {
	return s.store.Load()
}

// Swap atomically replaces the current store.
func (s *Snapshot) Swap(store *Store) {
	s.store.Store(store)
}

// Reload loads the catalog at path and swaps it in. On load failure the
// previous store stays active and the error is returned.
func (s *Snapshot) Reload(path string) error {
	store, err := Load(path)
	if err != nil {
		return err
	}
	s.Swap(store)
	return nil
}

// Watch re-loads the catalog file whenever it changes on disk, swapping
// in the new store only when it validates. Blocks until ctx is done.
func (s *Snapshot) Watch(ctx context.Context, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops
	// a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(path); err != nil {
				logger.Warn("catalog reload rejected, keeping previous snapshot", "path", path, "error", err)
				continue
			}
			logger.Info("catalog reloaded", "path", path, "fragments", s.Store().Len())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", "error", err)
		}
	}
}
