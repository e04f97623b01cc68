// Package watcher provides file watching for configuration live reload.
//
// The watcher monitors configuration files for changes and triggers
// reload callbacks when modifications are detected. It watches each
// file's containing directory with fsnotify and filters the resulting
// events down to the specific paths callers registered, the same
// directory-level approach the pack's own fsnotify watchers use.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes via fsnotify.
type Watcher struct {
	mu sync.RWMutex

	fsw *fsnotify.Watcher

	// Watched files and their last known modification times (zero
	// means the file did not exist the last time we observed it).
	files map[string]time.Time

	// Containing directories currently added to fsw, ref-counted by
	// how many watched files live in each one.
	dirRefs map[string]int

	// Handlers to call on file changes
	handlers []Handler

	// Retained for API compatibility with callers that tuned polling
	// cadence before this watcher moved to fsnotify; no longer consulted
	// by the event loop itself.
	interval time.Duration

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc

	// Wait group for shutdown
	wg sync.WaitGroup

	// Running state
	running bool

	// Debounce settings
	debounce     time.Duration
	pendingMu    sync.Mutex
	pendingFiles map[string]pendingEvent
}

// pendingEvent stores a pending event with its operation for debouncing.
type pendingEvent struct {
	Op   Operation
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling interval retained for API compatibility;
// fsnotify delivers events as they occur regardless of this value.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a new file watcher. The underlying fsnotify.Watcher isn't
// opened until Start, so Watch/Unwatch/WatchDir can be called beforehand
// to build up the watch set.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		files:        make(map[string]time.Time),
		dirRefs:      make(map[string]int),
		handlers:     make([]Handler, 0),
		interval:     500 * time.Millisecond,
		debounce:     100 * time.Millisecond,
		pendingFiles: make(map[string]pendingEvent),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Watch adds a file to the watch list. Files that don't exist yet are
// watched for creation, since their containing directory is what
// fsnotify actually observes.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, already := w.files[absPath]; already {
		return nil
	}

	info, err := os.Stat(absPath)
	switch {
	case err == nil:
		w.files[absPath] = info.ModTime()
	case os.IsNotExist(err):
		w.files[absPath] = time.Time{}
	default:
		return err
	}

	dir := filepath.Dir(absPath)
	w.dirRefs[dir]++
	if w.fsw != nil && w.dirRefs[dir] == 1 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[absPath]; !ok {
		return nil
	}
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirRefs[dir]--
	if w.dirRefs[dir] <= 0 {
		delete(w.dirRefs, dir)
		if w.fsw != nil {
			_ = w.fsw.Remove(dir)
		}
	}
	return nil
}

// WatchDir adds all files in a directory matching a pattern.
func (w *Watcher) WatchDir(dir string, pattern string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	matches, err := filepath.Glob(filepath.Join(absDir, pattern))
	if err != nil {
		return err
	}

	for _, path := range matches {
		if err := w.Watch(path); err != nil {
			return err
		}
	}

	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching files for changes.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return
	}
	for dir := range w.dirRefs {
		_ = fsw.Add(dir)
	}
	w.fsw = fsw
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.watchLoop()

	if w.debounce > 0 {
		w.wg.Add(1)
		go w.debounceLoop()
	}
}

// Stop stops watching files.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	w.wg.Wait()
	if fsw != nil {
		_ = fsw.Close()
	}
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedFiles returns the list of watched files.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

// watchLoop drains fsnotify events for every watched directory and
// dispatches the ones that match a path this Watcher was actually asked
// to watch; events for sibling files sharing the same directory are
// dropped.
func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleFSEvent converts an fsnotify event into our Event and, if it
// matches a watched path, queues or emits it.
func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	absPath, err := filepath.Abs(fsEvent.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	lastMod, watched := w.files[absPath]
	if !watched {
		w.mu.Unlock()
		return
	}

	var event Event
	switch {
	case fsEvent.Has(fsnotify.Remove), fsEvent.Has(fsnotify.Rename):
		w.files[absPath] = time.Time{}
		op := OpRemove
		if fsEvent.Has(fsnotify.Rename) {
			op = OpRename
		}
		event = Event{Path: absPath, Op: op, Time: time.Now()}
	case fsEvent.Has(fsnotify.Create):
		info, statErr := os.Stat(absPath)
		if statErr != nil {
			w.mu.Unlock()
			return
		}
		w.files[absPath] = info.ModTime()
		event = Event{Path: absPath, Op: OpCreate, Time: time.Now()}
	case fsEvent.Has(fsnotify.Write):
		info, statErr := os.Stat(absPath)
		if statErr != nil {
			w.mu.Unlock()
			return
		}
		w.files[absPath] = info.ModTime()
		op := OpWrite
		if lastMod.IsZero() {
			op = OpCreate
		}
		event = Event{Path: absPath, Op: op, Time: time.Now()}
	default:
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	if w.debounce > 0 {
		w.queueEvent(event)
	} else {
		w.emitEvent(event)
	}
}

// queueEvent queues an event for debounced delivery.
// It coalesces events intelligently:
// - create + write => create (first seen operation wins for creation)
// - write + write => write (latest time)
// - any + remove => remove (deletion takes precedence)
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	existing, exists := w.pendingFiles[event.Path]
	if !exists {
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
		return
	}

	switch event.Op {
	case OpRemove:
		w.pendingFiles[event.Path] = pendingEvent{Op: OpRemove, Time: event.Time}
	case OpCreate:
		if existing.Op != OpCreate {
			w.pendingFiles[event.Path] = pendingEvent{Op: OpCreate, Time: event.Time}
		} else {
			w.pendingFiles[event.Path] = pendingEvent{Op: OpCreate, Time: event.Time}
		}
	case OpWrite:
		if existing.Op == OpWrite {
			w.pendingFiles[event.Path] = pendingEvent{Op: OpWrite, Time: event.Time}
		} else {
			w.pendingFiles[event.Path] = pendingEvent{Op: existing.Op, Time: event.Time}
		}
	default:
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
	}
}

// debounceLoop processes debounced events.
func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.processPendingEvents()
		}
	}
}

// processPendingEvents emits events that have been stable.
func (w *Watcher) processPendingEvents() {
	w.pendingMu.Lock()
	now := time.Now()
	stableThreshold := now.Add(-w.debounce)

	var toEmit []Event
	for path, pending := range w.pendingFiles {
		if pending.Time.Before(stableThreshold) {
			toEmit = append(toEmit, Event{
				Path: path,
				Op:   pending.Op,
				Time: pending.Time,
			})
			delete(w.pendingFiles, path)
		}
	}
	w.pendingMu.Unlock()

	for _, event := range toEmit {
		w.emitEvent(event)
	}
}

// emitEvent calls all handlers with the event.
// Handlers are called with panic recovery to prevent a panicking handler
// from crashing the watcher goroutine.
func (w *Watcher) emitEvent(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		w.safeCallHandler(handler, event)
	}
}

// safeCallHandler calls a handler with panic recovery.
func (w *Watcher) safeCallHandler(handler Handler, event Event) {
	defer func() {
		_ = recover()
	}()
	handler(event)
}
