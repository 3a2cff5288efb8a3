package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thingc24/carve/core/cache"
	"github.com/thingc24/carve/core/logger"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher calls OnChange once a burst of edits to watched source files has
// settled. Only files passed to New are considered, and only when their
// content actually changed.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool
	content  *cache.ContentCache
	debounce time.Duration
	onChange func() error

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	running sync.WaitGroup
}

// New watches the parent directories of files. Files are compared by their
// cleaned absolute path.
func New(files []string, onChange func() error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool, len(files)),
		content:  cache.NewContentCache(),
		debounce: DefaultDebounce,
		onChange: onChange,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
		if _, err := w.content.Update(abs); err != nil {
			logger.Debug("Failed to hash %s: %v", abs, err)
		}
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			logger.Warn("Not watching %s: %v", dir, err)
			continue
		}
		logger.Debug("Adding watcher for: %s", dir)
	}

	return w, nil
}

// SetDebounce changes the quiet period before OnChange runs.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Watch blocks until ctx is done or the underlying watcher is closed.
func (w *Watcher) Watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	name := filepath.Clean(event.Name)
	if !w.files[name] {
		return
	}
	logger.Debug("File event: %s %s", event.Op, name)

	changed, err := w.content.Update(name)
	if err != nil {
		logger.Error("Failed to check %s: %v", name, err)
		return
	}
	if !changed {
		return
	}
	w.schedule()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.running.Add(1)
	w.mu.Unlock()
	defer w.running.Done()

	logger.Info("Source changes detected, re-running extraction...")
	if err := w.onChange(); err != nil {
		logger.Error("Re-run failed: %v", err)
	}
}

// Close stops watching and waits for a re-run already in progress.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.running.Wait()
	return err
}
