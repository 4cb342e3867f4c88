package offline

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig holds settings for the snapshot watcher.
type WatcherConfig struct {
	// DebounceInterval is how long to wait after the last snapshot change
	// before firing the callback. Editors often produce bursts of write
	// and rename events for a single save.
	DebounceInterval time.Duration

	// Logger receives watch errors. If nil, logging is disabled.
	Logger *log.Logger
}

// DefaultWatcherConfig returns a WatcherConfig with sensible defaults.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		DebounceInterval: 250 * time.Millisecond,
	}
}

// Watcher watches a snapshot file for external edits and fires a callback
// when the file settles. It plays the same role for offline mode that the
// event channel listener plays online: a trigger to re-read the source of
// truth, never a data carrier.
type Watcher struct {
	path    string
	config  WatcherConfig
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	closed  bool
	timer   *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a Watcher for the given snapshot path.
// Start must be called before events are delivered.
func NewWatcher(path string, config WatcherConfig) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path cannot be empty")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = DefaultWatcherConfig().DebounceInterval
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:    path,
		config:  config,
		watcher: fw,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the snapshot's directory and invokes onChange
// after edits to the snapshot file settle. Watching the directory rather
// than the file keeps the watch alive across rename-based rewrites.
func (w *Watcher) Start(onChange func()) error {
	if onChange == nil {
		return fmt.Errorf("onChange callback cannot be nil")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.running {
		return fmt.Errorf("watcher already running")
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents(onChange)

	return nil
}

// Stop stops the watcher and releases its resources. It blocks until the
// event loop has exited. Stop is idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.running = false
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.mu.Unlock()

	close(w.done)

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.wg.Wait()
	return nil
}

func (w *Watcher) processEvents(onChange func()) {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isSnapshotEvent(event) {
				continue
			}
			w.scheduleChange(onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logf("watch error: %v", err)
		}
	}
}

// isSnapshotEvent reports whether the event concerns the snapshot file.
// Only write-shaped operations count; chmod noise is ignored.
func (w *Watcher) isSnapshotEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

// scheduleChange arms (or re-arms) the debounce timer. Each event pushes
// the deadline out, so a burst of editor events collapses to one callback.
func (w *Watcher) scheduleChange(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	// The armed timer joins the WaitGroup so Stop cannot return while
	// its callback is still deciding whether to fire.
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.config.DebounceInterval, func() {
		defer w.wg.Done()
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		onChange()
	})
}

func (w *Watcher) logf(format string, args ...interface{}) {
	if w.config.Logger != nil {
		w.config.Logger.Printf(format, args...)
	}
}
