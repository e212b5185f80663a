// Package watch follows a theme directory so images dropped into it join the
// running slideshow.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shuheykoyama/tnap/internal/log"
	"github.com/shuheykoyama/tnap/internal/slides"
)

// ImageEvent is a new or rewritten image file seen by the watcher.
type ImageEvent struct {
	Item      slides.Item
	Info      os.FileInfo
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors directories for image files using fsnotify.
type Watcher struct {
	directories []string
	filter      func(name string) bool

	events   chan ImageEvent
	stopChan chan struct{}
	loopDone chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	stopped bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter only reports files whose base name satisfies filter.
func WithFilter(filter func(name string) bool) Option {
	return func(w *Watcher) {
		if filter != nil {
			w.filter = filter
		}
	}
}

// WithBuffer sets the event channel capacity. The default is 10.
func WithBuffer(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.events = make(chan ImageEvent, n)
		}
	}
}

// New creates a directory watcher.
func New(opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		filter:    func(string) bool { return true },
		events:    make(chan ImageEvent, 10),
		stopChan:  make(chan struct{}),
		loopDone:  make(chan struct{}),
		fsWatcher: fsWatcher,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// AddDirectory adds a directory to watch.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Events delivers image events. It is closed once the watcher has stopped.
func (w *Watcher) Events() <-chan ImageEvent {
	return w.events
}

// Start begins processing fsnotify events. A watcher can be started once.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	w.running = true

	go w.loop()
	log.Debug("Watcher started.")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.loopDone)
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !w.filter(filepath.Base(event.Name)) {
				continue
			}

			// The file may already be gone, or be a directory.
			info, err := os.Stat(event.Name)
			if err != nil {
				if !os.IsNotExist(err) {
					log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
				}
				continue
			}
			if info.IsDir() {
				continue
			}

			ev := ImageEvent{
				Item:      slides.Item(event.Name),
				Info:      info,
				Timestamp: time.Now(),
				Op:        event.Op,
			}
			// Blocks until the consumer takes the event or Stop is called.
			select {
			case w.events <- ev:
			case <-w.stopChan:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// Stop halts the watcher and waits for its event loop to exit. Events is
// closed when Stop returns. Stopping a watcher that never started only
// releases the fsnotify handle.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		closeOnly := !w.stopped
		w.stopped = true
		w.mutex.Unlock()
		if closeOnly {
			_ = w.fsWatcher.Close()
		}
		return
	}
	w.running = false
	w.stopped = true
	close(w.stopChan)
	w.mutex.Unlock()

	<-w.loopDone
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	log.Debug("Watcher stopped.")
}

// IsRunning reports whether the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the watched directories.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}

// Feed appends every event's item to set unless it is already present. It
// returns when the watcher's event channel closes.
func Feed(w *Watcher, set *slides.ReadySet) int {
	added := 0
	for ev := range w.Events() {
		if set.Contains(ev.Item) {
			continue
		}
		set.Append(ev.Item)
		added++
		log.LogWithFields(log.F("path", ev.Item.Path())).Info("Image added to slideshow")
	}
	return added
}
