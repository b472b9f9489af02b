package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used when fsnotify is unavailable.
const DefaultPollInterval = 2 * time.Second

// FileWatcher reports changes to a single file. Bursts of writes are
// debounced into one onChange call.
type FileWatcher struct {
	path      string
	onChange  func()
	onError   func(error)
	debouncer *Debouncer
	poll      time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	polling bool
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) { w.debouncer = NewDebouncer(d) }
}

// WithPollInterval sets the polling fallback interval.
func WithPollInterval(d time.Duration) Option {
	return func(w *FileWatcher) { w.poll = d }
}

// WithErrorHandler receives watcher errors.
func WithErrorHandler(fn func(error)) Option {
	return func(w *FileWatcher) { w.onError = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *FileWatcher) { w.logger = l }
}

// NewFileWatcher creates a watcher for path. onChange runs on a timer
// goroutine.
func NewFileWatcher(path string, onChange func(), opts ...Option) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	w := &FileWatcher{
		path:      abs,
		onChange:  onChange,
		onError:   func(error) {},
		debouncer: NewDebouncer(DefaultDebounceDuration),
		poll:      DefaultPollInterval,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched path.
func (w *FileWatcher) Path() string {
	return w.path
}

// Polling reports whether the watcher fell back to polling.
func (w *FileWatcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Start begins watching. It returns once the watcher is armed; events are
// processed until ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return errors.New("watcher already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		// Watch the directory: editors replace files by rename.
		err = fsw.Add(filepath.Dir(w.path))
		if err != nil {
			fsw.Close()
		}
	}
	if err != nil {
		w.logger.Warn("fsnotify unavailable, polling", "path", w.path, "error", err)
		w.mu.Lock()
		w.polling = true
		w.mu.Unlock()
		go w.pollLoop(ctx)
		return nil
	}

	go w.eventLoop(ctx, fsw)
	return nil
}

// Stop stops watching and cancels a pending change notification.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel = nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.debouncer.Cancel()
}

func (w *FileWatcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.done)
	defer fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			w.debouncer.Trigger(w.onChange)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(fmt.Errorf("watch %s: %w", w.path, err))
		}
	}
}

func (w *FileWatcher) pollLoop(ctx context.Context) {
	defer close(w.done)
	last := modTime(w.path)
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := modTime(w.path)
			if !cur.Equal(last) {
				last = cur
				w.debouncer.Trigger(w.onChange)
			}
		}
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
