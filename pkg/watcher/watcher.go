package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes one snapshot file and invokes onChange (debounced) when
// it is written, created, or renamed into place. Many tools replace files
// atomically via rename, so the parent directory is watched rather than the
// file itself.
type Watcher struct {
	path      string
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	done      chan struct{}
}

// New starts watching the given file. onChange runs on the watcher's
// goroutine after the debounce window; keep it short or hand off.
func New(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:      abs,
		fs:        fs,
		debouncer: NewDebouncer(debounce),
		done:      make(chan struct{}),
	}
	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func()) {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.debouncer.Trigger(onChange)
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Transient watch errors are ignored; the next event still lands.
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.path
}

// Close stops the watcher and cancels any pending reload.
func (w *Watcher) Close() error {
	close(w.done)
	w.debouncer.Cancel()
	return w.fs.Close()
}
