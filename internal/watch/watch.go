// Package watch observes the data directory and triggers a reload when the
// refresh job rewrites the exports.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce covers the window in which the refresh job rewrites
// several export files back to back; one reload serves the whole batch.
const defaultDebounce = 500 * time.Millisecond

// Watcher triggers onChange after the data directory settles.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	onChange func(context.Context)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the settle window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New creates a Watcher over dir. onChange runs on the watcher goroutine,
// so it should hand off long work rather than block event processing.
func New(dir string, onChange func(context.Context), opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		debounce: defaultDebounce,
		logger:   slog.Default(),
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %q: %w", w.dir, err)
	}

	w.logger.Info("watching data directory", "dir", w.dir)

	// The timer starts stopped; the first relevant event arms it.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("export changed", "file", ev.Name, "op", ev.Op.String())
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.onChange(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// relevant reports whether the event touches an export document. Editors and
// the refresh job both write via temp files, so renames count too.
func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
		return false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".csv", ".json":
		return true
	}
	return false
}
