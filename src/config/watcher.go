package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"crypto-analyst/src/logger"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

// -----------------------------------------------------------------------------

// Watcher reloads the YAML config when the file changes on disk and hands
// the validated result to OnChange. Invalid edits are logged and ignored.
type Watcher struct {
	Path     string
	OnChange func(*Config)
	Logger   *logger.Logger
	Debounce time.Duration

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

// -----------------------------------------------------------------------------

func NewWatcher(path string, onChange func(*Config), log *logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	return &Watcher{
		Path:     path,
		OnChange: onChange,
		Logger:   log,
		Debounce: defaultDebounce,
		watcher:  fw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// -----------------------------------------------------------------------------

// Start watches the config file's directory, since editors often replace
// the file instead of writing it in place. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.Logger.Info("Watching config file %s", w.Path)
	w.started.Store(true)
	go w.run(ctx)
	return nil
}

// -----------------------------------------------------------------------------

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if err := w.watcher.Close(); err != nil {
			w.Logger.Error("Error closing config watcher: %v", err)
		}
	})
	if w.started.Load() {
		<-w.doneCh
	}
}

// -----------------------------------------------------------------------------

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	target := filepath.Clean(w.Path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.Logger.Error("Config watcher error: %v", err)

		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

// -----------------------------------------------------------------------------

func (w *Watcher) reload() {
	cfg, err := NewConfig(w.Path)
	if err != nil {
		w.Logger.Warning("Ignoring config change: %v", err)
		return
	}
	w.Logger.Info("Config reloaded from %s", w.Path)
	if w.OnChange != nil {
		w.OnChange(cfg)
	}
}
