// Package watch reports when a single file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"chunker/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches one file and emits its path, debounced, after it is
// written, created or renamed into place. The parent directory is watched
// because many editors save by writing a temp file and renaming it.
type FileWatcher struct {
	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	path      string
	dir       string
	debouncer *Debouncer
	events    chan string
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
	stopped   bool

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	RawEvents int
	Emitted   int
	Errors    int
	LastEvent time.Time
}

// NewFileWatcher creates a watcher for path. Call Start to begin watching.
func NewFileWatcher(path string, debounce time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher:   w,
		path:      abs,
		dir:       filepath.Dir(abs),
		debouncer: NewDebouncer(debounce),
		events:    make(chan string, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string { return fw.path }

// Events delivers the watched path after each settled change.
// The channel is never closed; select on Done as well.
func (fw *FileWatcher) Events() <-chan string { return fw.events }

// Done is closed once the watcher has stopped.
func (fw *FileWatcher) Done() <-chan struct{} { return fw.doneCh }

// Start begins watching. It is non-blocking.
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	if fw.running || fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	if err := fw.watcher.Add(fw.dir); err != nil {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		return fmt.Errorf("watch %s: %w", fw.dir, err)
	}
	logging.Watch("watching %s", fw.path)

	go fw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return
	}
	wasRunning := fw.running
	fw.stopped = true
	fw.running = false
	fw.mu.Unlock()

	close(fw.stopCh)
	if wasRunning {
		<-fw.doneCh
	} else {
		close(fw.doneCh)
	}
	fw.debouncer.Cancel()

	if err := fw.watcher.Close(); err != nil {
		logging.WatchError("error closing watcher: %v", err)
	}
	logging.Watch("stopped watching %s", fw.path)
}

// Stats returns a copy of the activity counters.
func (fw *FileWatcher) Stats() Stats {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.stats
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchError("watcher error: %v", err)
			fw.mu.Lock()
			fw.stats.Errors++
			fw.mu.Unlock()
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	logging.WatchDebug("%s %s", event.Op, event.Name)
	fw.mu.Lock()
	fw.stats.RawEvents++
	fw.stats.LastEvent = time.Now()
	fw.mu.Unlock()

	fw.debouncer.Debounce(fw.emit)
}

func (fw *FileWatcher) emit() {
	select {
	case <-fw.stopCh:
		return
	default:
	}
	select {
	case fw.events <- fw.path:
		fw.mu.Lock()
		fw.stats.Emitted++
		fw.mu.Unlock()
	default:
		// A change is already queued; the reader will reload once.
	}
}
