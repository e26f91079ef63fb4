// Package watch re-runs a callback when resume documents change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config controls a Watcher.
type Config struct {
	// Path is a document or a directory of documents. For a document, its
	// directory is watched so imported siblings trigger a change as well.
	Path string

	// DebounceInterval is the quiet period before onChange runs (default: 100ms).
	DebounceInterval time.Duration

	// Extensions lists the file extensions that count as changes.
	Extensions []string
}

// DefaultConfig returns a config for path with .resume files and a 100ms debounce.
func DefaultConfig(path string) Config {
	return Config{
		Path:             path,
		DebounceInterval: 100 * time.Millisecond,
		Extensions:       []string{".resume"},
	}
}

// Watcher watches resume documents and triggers a callback on change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	log      *slog.Logger
	cfg      Config
	debounce *Debouncer
}

// New creates a watcher. Watching starts with Run.
func New(cfg Config, log *slog.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".resume"}
	}
	if log == nil {
		log = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher:  fw,
		log:      log,
		cfg:      cfg,
		debounce: NewDebouncer(cfg.DebounceInterval),
	}, nil
}

// Run blocks until ctx is cancelled, calling onChange after each burst of
// matching events. Errors from onChange are logged and watching continues.
// The watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	defer w.close()

	dir, err := watchDir(w.cfg.Path)
	if err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.log.Info("watching for changes",
		"path", w.cfg.Path,
		"dir", dir,
		"debounce_ms", w.cfg.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("file event", "path", event.Name, "op", event.Op.String())

			w.debounce.Trigger(func() {
				if err := onChange(); err != nil {
					w.log.Error("change handler failed", "path", event.Name, "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) close() {
	w.debounce.Stop()
	if err := w.watcher.Close(); err != nil {
		w.log.Warn("close watcher", "error", err)
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, want := range w.cfg.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

func watchDir(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}

// Debouncer runs only the last callback of a burst, once the burst has been
// quiet for the interval.
type Debouncer struct {
	interval time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

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
