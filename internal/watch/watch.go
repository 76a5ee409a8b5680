// Package watch re-runs a callback when files under a project tree change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"localize-gen/internal/filewalker"
)

// DefaultDebounce is how long the tree must be quiet before a re-run.
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes a directory tree recursively.
type Watcher struct {
	root     string
	debounce time.Duration
	relevant func(rel string) bool
}

// New creates a watcher for root. relevant filters changed files by their
// slash-separated path relative to root.
func New(root string, debounce time.Duration, relevant func(rel string) bool) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, debounce: debounce, relevant: relevant}
}

// Run calls fn once, then again after each burst of relevant changes, until
// ctx is done. Errors from fn are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}

	w.call(ctx, fn)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, ev.Name); err != nil {
						log.Warn().Err(err).Str("path", ev.Name).Msg("Cannot watch new directory")
					}
					fire = time.After(w.debounce)
					continue
				}
			}
			if !w.matches(ev.Name) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("Change detected")
			fire = time.After(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("File watcher error")

		case <-fire:
			fire = nil
			w.call(ctx, fn)
		}
	}
}

func (w *Watcher) call(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Run failed")
	}
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return w.relevant(filepath.ToSlash(rel))
}

// addTree watches dir and every directory below it that the walker would
// descend into.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && filewalker.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
