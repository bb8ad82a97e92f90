package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aledsdavies/batparse/core/invariant"
)

// FileWatcher re-runs a callback when one script file changes. The parent
// directory is watched so that editors which save by rename are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	path     string
	debounce *Debouncer
}

// NewFileWatcher creates a watcher for path.
func NewFileWatcher(path string, interval time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		path:     abs,
		debounce: NewDebouncer(interval),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onChange after each burst of
// changes to the file. Errors from onChange are logged and watching goes on.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func() error) error {
	invariant.ContextNotBackground(ctx, "FileWatcher.Watch")
	defer fw.debounce.Stop()
	defer func() { _ = fw.watcher.Close() }()

	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}

	fw.logger.Info("watching for changes",
		"path", fw.path,
		"debounce_ms", fw.debounce.interval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())

			fw.debounce.Trigger(func() {
				fw.logger.Info("reparsing", "path", fw.path)
				if err := onChange(); err != nil {
					fw.logger.Error("reparse failed", "error", err)
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return false
	}
	return filepath.Clean(event.Name) == fw.path
}

// Debouncer collects rapid events and runs the last callback once after a
// quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		d.callback = nil
		stopped := d.stopped
		d.mu.Unlock()

		if cb != nil && !stopped {
			cb()
		}
	})
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
