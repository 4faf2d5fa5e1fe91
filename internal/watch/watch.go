// Package watch reloads state when files under the data directory change,
// e.g. when another hotcmd process edits the database.
package watch

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of writes into one callback.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a handler per watched file after its changes settle.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	handlers map[string]func()
	timers   map[string]*time.Timer
	dirs     map[string]bool
}

// New creates a watcher. A debounce of zero uses DefaultDebounce.
func New(debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		fw:       fw,
		debounce: debounce,
		log:      log,
		handlers: map[string]func(){},
		timers:   map[string]*time.Timer{},
		dirs:     map[string]bool{},
	}, nil
}

// OnChange calls fn whenever path, or a SQLite side file of it (-wal,
// -journal), is written, created, removed or renamed. The parent directory
// is watched so the file may not exist yet.
func (w *Watcher) OnChange(path string, fn func()) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	w.mu.Lock()
	w.handlers[path] = fn
	seen := w.dirs[dir]
	w.dirs[dir] = true
	w.mu.Unlock()
	if seen {
		return nil
	}
	return w.fw.Add(dir)
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ev.Name)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) schedule(name string) {
	target := owner(filepath.Clean(name))
	w.mu.Lock()
	defer w.mu.Unlock()
	fn, ok := w.handlers[target]
	if !ok {
		return
	}
	if t, ok := w.timers[target]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[target] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, target)
		w.mu.Unlock()
		w.log.Debug("watched file changed", "path", target)
		fn()
	})
}

// owner maps SQLite side files to the database they belong to.
func owner(name string) string {
	for _, suffix := range []string{"-wal", "-journal", "-shm"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// Close stops pending callbacks and releases the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for k, t := range w.timers {
		t.Stop()
		delete(w.timers, k)
	}
	w.mu.Unlock()
	return w.fw.Close()
}
