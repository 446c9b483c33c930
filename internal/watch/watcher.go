package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/f-is-h/mcp-easy-copy/internal/logging"
)

// DefaultDebounce coalesces bursts of events from editors that write in
// several steps (truncate, write, rename).
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to any of a set of files by watching their parent
// directories. It carries no file contents.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	debounce time.Duration
	limiter  *rate.Limiter
	onChange func(ctx context.Context)
	log      *slog.Logger

	watcher *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithRateLimit caps change callbacks to one per interval, with a burst of one.
func WithRateLimit(every time.Duration) Option {
	return func(w *Watcher) {
		w.limiter = rate.NewLimiter(rate.Every(every), 1)
	}
}

// New creates a watcher for files. Only parent directories that exist are
// watched; a directory created later is not picked up. It returns an error
// when no directory can be watched.
func New(files []string, onChange func(ctx context.Context), opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		debounce: DefaultDebounce,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		onChange: onChange,
		log:      logging.ForComponent(logging.CompWatch),
	}
	for _, opt := range opts {
		opt(w)
	}

	seen := make(map[string]bool)
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = true
		dir := filepath.Dir(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.dirs) == 0 {
		return nil, fmt.Errorf("no existing directory to watch among %d candidates", len(files))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.watcher = fw
	return w, nil
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	return append([]string(nil), w.dirs...)
}

// Run processes events until ctx is cancelled, then closes the underlying
// watcher. It always returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.log.InfoContext(ctx, "watcher_started", slog.Any("dirs", w.dirs))

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.DebugContext(ctx, "config_event", slog.String("file", event.Name), slog.String("op", event.Op.String()))

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
			mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WarnContext(ctx, "watcher_error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.files[filepath.Clean(event.Name)] {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !w.limiter.Allow() {
		w.log.DebugContext(ctx, "config_change_throttled")
		return
	}
	w.onChange(ctx)
}
