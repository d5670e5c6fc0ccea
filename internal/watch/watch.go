// Package watch re-runs a script when its source file changes, wrapping
// fsnotify.Watcher into a buffered event channel. The interpreter has no
// module system, so there is exactly one file to watch per run.
package watch

import (
	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single file and emits an event each time it is
// written. Events is buffered so a burst of saves (editors that write
// a temp file then rename it over the original) does not block the
// fsnotify goroutine.
type Watcher struct {
	w      *fsnotify.Watcher
	events chan struct{}
	errs   chan error
}

// New starts watching path for writes and renames (the common save
// patterns across editors and `cp`/`mv`).
func New(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}

	watcher := &Watcher{w: w, events: make(chan struct{}, 8), errs: make(chan error, 1)}
	go watcher.loop()
	return watcher, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				select {
				case w.events <- struct{}{}:
				default:
				}
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// Changed is signaled once per detected change to the watched file.
func (w *Watcher) Changed() <-chan struct{} { return w.events }

// Errors surfaces fsnotify's own watch errors.
func (w *Watcher) Errors() <-chan error { return w.errs }

func (w *Watcher) Close() error { return w.w.Close() }
