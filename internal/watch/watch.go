// Package watch reports changes to files llama-swap reloads from, so the
// streaming loop can refresh immediately instead of on its next tick.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher delivers one signal per debounced burst of writes to the
// watched files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]bool
	debounce  time.Duration
	log       logger.Logger

	changes chan struct{}
	done    chan struct{}
	once    sync.Once

	timerMu sync.Mutex
	timer   *time.Timer
}

// New watches files through their parent directories, so atomic
// rename-over saves are still seen.
func New(log logger.Logger, debounce time.Duration, files ...string) (*Watcher, error) {
	if log == nil {
		log = logger.Noop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to start file watcher", "")
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		files:     make(map[string]bool),
		debounce:  debounce,
		log:       log,
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = filepath.Clean(f)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			// Directory may not exist until llama-swap is configured.
			log.Debug("not watching %s: %v", dir, err)
		}
	}

	go w.processEvents()
	return w, nil
}

// Changes receives after each debounced change.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timerMu.Unlock()
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if !w.files[filepath.Clean(event.Name)] {
		return
	}
	w.log.Debug("fsnotify: %s %s", event.Op, event.Name)

	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire signals without blocking; an unread signal already covers this one.
func (w *Watcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
