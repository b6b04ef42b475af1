// Package watcher reports changes to a single file.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a file for changes
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a new file watcher
func New(path string, onChange func(), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		logger:   logger,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch starts watching the file for changes. It blocks until ctx is
// cancelled or the underlying watcher fails. onChange runs at most once per
// burst of writes and never after Watch has returned.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Watch the directory containing the file
	// This handles cases where the file is replaced (e.g., by editors)
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := fsw.Add(dir); err != nil {
		return err
	}

	w.logger.Info("watching file for changes", zap.String("path", w.path))

	var (
		mu      sync.Mutex
		stopped bool
		wg      sync.WaitGroup
		timer   *time.Timer
	)
	fire := func() {
		defer wg.Done()
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		w.logger.Info("file changed", zap.String("path", w.path))
		w.onChange()
	}
	stop := func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		wg.Wait()
	}
	defer stop()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid changes
				if timer != nil && timer.Stop() {
					wg.Done()
				}
				wg.Add(1)
				timer = time.AfterFunc(w.debounce, fire)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
