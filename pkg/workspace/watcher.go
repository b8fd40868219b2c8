package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jensen-yan/compiler/pkg/telemetry/logging"
)

// ErrWatcherNotRunning is reported by Check before Watch starts or after it
// returns.
var ErrWatcherNotRunning = errors.New("watcher is not running")

// Change is a script file that was written, created or removed. Tracked is
// set for files registered with Track.
type Change struct {
	Path    string
	Removed bool
	Tracked bool
}

// Watcher reports changes to script files under a set of roots. Events are
// debounced: a burst of writes produces one callback with every path that
// changed during the burst.
type Watcher struct {
	fsw      *fsnotify.Watcher
	loader   *Loader
	logger   *logging.Logger
	debounce *Debouncer

	mu        sync.Mutex
	pending   map[string]Change
	tracked   map[string]bool
	trackOnly map[string]bool
	running   bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher that filters files with loader's options and
// waits for debounce of quiet before calling back.
func NewWatcher(loader *Loader, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsw:      fsw,
		loader:   loader,
		logger:   logger,
		debounce: NewDebouncer(debounce),
		pending:  make(map[string]Change),
		tracked:  make(map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Add watches root. Directories are watched recursively, including ones
// created later.
func (w *Watcher) Add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &LoadError{Path: root, Op: "watch", Err: err}
	}
	if !info.IsDir() {
		return w.fsw.Add(root)
	}
	return w.addDirectory(root)
}

func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.loader.opts.SkipHidden && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// Track reports changes to a single file whatever its extension. The
// parent directory is watched so that editors which save by rename are
// seen. Other files in that directory are ignored unless it was already
// added as a root.
func (w *Watcher) Track(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	watched := false
	for _, p := range w.fsw.WatchList() {
		if p == dir {
			watched = true
			break
		}
	}
	if !watched {
		if err := w.fsw.Add(dir); err != nil {
			return &LoadError{Path: path, Op: "watch", Err: err}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.tracked[path] = true
	if !watched {
		if w.trackOnly == nil {
			w.trackOnly = make(map[string]bool)
		}
		w.trackOnly[dir] = true
	}
	return nil
}

// WatchList returns the watched files and directories.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

// Watch delivers changes to onChange until ctx is done or Stop is called.
// onChange runs on the debounce timer's goroutine, one call at a time.
func (w *Watcher) Watch(ctx context.Context, onChange func([]Change)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	w.logger.Info("file watcher started", "watched", len(w.fsw.WatchList()))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped", "reason", ctx.Err())
			return nil

		case <-w.stopCh:
			w.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			w.handle(event, onChange)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, onChange func([]Change)) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}

	w.mu.Lock()
	tracked := w.tracked[event.Name]
	trackOnly := w.trackOnly[filepath.Dir(event.Name)]
	w.mu.Unlock()
	if trackOnly && !tracked {
		return
	}

	if !tracked && event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !(w.loader.opts.SkipHidden && isHidden(info.Name())) {
				if err := w.addDirectory(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	if !tracked && !w.loader.Matches(event.Name) {
		return
	}

	w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())

	removed := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	w.mu.Lock()
	w.pending[event.Name] = Change{Path: event.Name, Removed: removed, Tracked: tracked}
	w.mu.Unlock()

	w.debounce.Trigger(func() {
		if changes := w.drain(); len(changes) > 0 {
			onChange(changes)
		}
	})
}

// drain returns the pending changes sorted by path and clears them.
func (w *Watcher) drain() []Change {
	w.mu.Lock()
	defer w.mu.Unlock()

	changes := make([]Change, 0, len(w.pending))
	for _, c := range w.pending {
		changes = append(changes, c)
	}
	w.pending = make(map[string]Change)

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// Running reports whether Watch is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Check is a readiness check that fails unless Watch is active.
func (w *Watcher) Check(context.Context) error {
	if !w.Running() {
		return ErrWatcherNotRunning
	}
	return nil
}

// Stop ends Watch, cancels any pending callback and releases the fsnotify
// watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	w.debounce.Stop()

	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Debouncer runs the most recently triggered callback once no trigger has
// arrived for the interval.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

// NewDebouncer creates a debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger (re)starts the quiet period with callback.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	cb := d.callback
	stopped := d.stopped
	d.callback = nil
	d.mu.Unlock()

	if cb != nil && !stopped {
		cb()
	}
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
