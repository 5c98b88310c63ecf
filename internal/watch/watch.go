// Package watch monitors a source image and triggers reconversion on change.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before a
// reconversion fires. Editors and atomic-save tools emit event bursts; one
// conversion per burst.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors a single file for changes.
type Watcher struct {
	// Debounce overrides the event quiet period. Set before Run.
	Debounce time.Duration

	fw   *fsnotify.Watcher
	base string
}

// New creates a watcher for the file at path. The parent directory is
// watched rather than the file itself: editors that save via rename would
// otherwise detach the watch.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{Debounce: DefaultDebounce, fw: fw, base: filepath.Base(abs)}, nil
}

// Run blocks, invoking fn once per debounced burst of events on the watched
// file. onError receives watcher errors; watching continues after them.
// Run returns when Close is called.
func (w *Watcher) Run(fn func(), onError func(error)) {
	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.Debounce)
		case <-pending:
			pending = nil
			fn()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

// Close stops the watcher and unblocks Run.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
