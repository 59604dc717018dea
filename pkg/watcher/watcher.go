// Package watcher reports changes to a set of model source files. A model
// may span several files (OBJ, MTL, textures); changes that arrive close
// together are reported as one batch.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher debounces fsnotify events for a fixed set of files
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func(changed []string)

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	pending map[string]bool
	timer   *time.Timer
}

// New creates a watcher that calls onChange with the sorted absolute paths
// of the files that changed during one debounce window
func New(debounce time.Duration, onChange func(changed []string)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		fs:       fs,
		debounce: debounce,
		onChange: onChange,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		pending:  make(map[string]bool),
	}, nil
}

// Add starts watching files. The parent directory is watched so that
// editors replacing a file by rename are noticed too.
func (w *Watcher) Add(files ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		dir := filepath.Dir(abs)
		if !w.dirs[dir] {
			if err := w.fs.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			w.dirs[dir] = true
		}
		w.files[abs] = true
	}
	return nil
}

// Files returns the watched files
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Run processes events until ctx is done. Watch errors are printed and do
// not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.handle(event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("Watcher error: %v\n", err)
		}
	}
}

func (w *Watcher) handle(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[filepath.Clean(name)] {
		return
	}
	w.pending[filepath.Clean(name)] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for f := range w.pending {
		changed = append(changed, f)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	slices.Sort(changed)
	w.onChange(changed)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.fs.Close()
}
