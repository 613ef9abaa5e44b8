// Package watcher reports changes to the configuration file and the active
// provider source.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// EventType represents the type of file system event.
type EventType int

const (
	EventConfigChanged EventType = iota
	EventProviderChanged
)

func (t EventType) String() string {
	if t == EventProviderChanged {
		return "provider-changed"
	}
	return "config-changed"
}

// DebounceInterval coalesces the bursts editors produce when saving.
const DebounceInterval = 100 * time.Millisecond

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the config file and one provider file. It watches their
// directories so that atomic replace-by-rename saves are seen.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	logger     *zap.Logger
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once

	mu         sync.RWMutex
	configPath string
	provider   string
	dirs       map[string]int

	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a new file system watcher.
func New(logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		logger:     logger,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
		dirs:       make(map[string]int),
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start watches configPath and begins delivering events.
func (w *Watcher) Start(configPath string) error {
	configPath = filepath.Clean(configPath)

	w.mu.Lock()
	w.configPath = configPath
	err := w.addDirLocked(filepath.Dir(configPath))
	w.mu.Unlock()
	if err != nil {
		return err
	}

	go w.processEvents()
	return nil
}

// Stop stops the watcher. Pending debounced events are dropped.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

// WatchProvider switches the watched provider file. An empty path or a
// builtin provider stops watching the previous one.
func (w *Watcher) WatchProvider(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if path != "" && filepath.IsAbs(path) {
		path = filepath.Clean(path)
	} else {
		path = ""
	}
	if path == w.provider {
		return nil
	}

	if w.provider != "" {
		w.removeDirLocked(filepath.Dir(w.provider))
	}
	w.provider = ""
	if path == "" {
		return nil
	}
	if err := w.addDirLocked(filepath.Dir(path)); err != nil {
		return err
	}
	w.provider = path
	w.logger.Debug("Watching provider", zap.String("path", path))
	return nil
}

// Provider returns the watched provider file.
func (w *Watcher) Provider() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.provider
}

// addDirLocked reference-counts directory watches so the config directory and
// a provider living next to it share one watch.
func (w *Watcher) addDirLocked(dir string) error {
	if w.dirs[dir] == 0 {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	return nil
}

func (w *Watcher) removeDirLocked(dir string) {
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return
	}
	delete(w.dirs, dir)
	_ = w.fsWatcher.Remove(dir)
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
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Rename matters: atomic saves write a temp file and rename it over the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	eventType, ok := w.classify(filepath.Clean(event.Name))
	if !ok {
		return
	}
	w.logger.Debug("fsnotify", zap.Stringer("op", event.Op), zap.String("path", event.Name))

	w.debounceEvent(event.Name, func() {
		select {
		case w.eventsChan <- Event{Type: eventType, Path: event.Name}:
		case <-w.done:
		}
	})
}

func (w *Watcher) classify(path string) (EventType, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	switch path {
	case w.configPath:
		return EventConfigChanged, true
	case w.provider:
		return EventProviderChanged, w.provider != ""
	}
	return 0, false
}

func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(DebounceInterval, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}
