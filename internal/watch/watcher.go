// Package watch re-runs a callback when files under a directory tree change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one callback.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors a directory tree and triggers debounced callbacks.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	trigger chan struct{}
	loops   sync.WaitGroup
	once    sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for root and every directory below it.
func New(root string, onChange func(ctx context.Context), opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		_ = fw.Close()
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch path").Build()
	}
	w := &Watcher{
		root:     abs,
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   slog.Default(),
		watcher:  fw,
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addTree(abs); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to walk watch directory").
				WithContext("path", p).
				Build()
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", p).
				Build()
		}
		return nil
	})
}

// Run processes events until ctx is cancelled, then closes the watcher. It
// returns only after an in-flight callback has finished.
func (w *Watcher) Run(ctx context.Context) {
	defer w.Close()
	w.logger.InfoContext(ctx, "Watching for content changes", logfields.Path(w.root))

	ctx, cancel := context.WithCancel(ctx)
	w.loops.Add(1)
	go func() {
		defer w.loops.Done()
		w.debounceLoop(ctx)
	}()
	defer func() {
		cancel()
		w.loops.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.ErrorContext(ctx, "File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op&fsnotify.Chmod == event.Op {
		return
	}
	if event.Op&fsnotify.Create == fsnotify.Create {
		// New directories must be added explicitly; fsnotify is not recursive.
		if err := w.addTree(event.Name); err != nil {
			w.logger.DebugContext(ctx, "Could not watch new path", logfields.Path(event.Name), logfields.Error(err))
		}
	}
	w.logger.DebugContext(ctx, "Content change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.trigger:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.onChange(ctx)
		}
	}
}

// Close releases the underlying watcher. It is safe to call more than once.
func (w *Watcher) Close() {
	w.once.Do(func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	})
}
