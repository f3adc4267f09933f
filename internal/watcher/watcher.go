// Package watcher watches a single ELF file on disk and debounces its
// write events before invoking a refresh callback, using fsnotify the
// way the ambient stack's directory watcher does.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 500 * time.Millisecond

// Watcher watches one file's containing directory (fsnotify cannot watch
// a bare file across rename/replace) and filters events down to that
// file.
type Watcher struct {
	fw     *fsnotify.Watcher
	path   string
	onChange func(path string)
}

// New creates a Watcher for path. onChange is invoked, not necessarily
// from the caller's goroutine, whenever path is written or replaced,
// debounced to one call per debounce window of activity.
func New(path string, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watcher: watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{fw: fw, path: abs, onChange: onChange}, nil
}

// Run blocks, dispatching debounced change notifications until done is
// closed. Call it in a goroutine.
func (w *Watcher) Run(done <-chan struct{}) error {
	var pending *time.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()

	for {
		select {
		case <-done:
			return w.fw.Close()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, func() {
				w.onChange(w.path)
			})

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "[disx] watch error: %v\n", err)
		}
	}
}
