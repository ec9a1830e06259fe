// Package watch re-runs a build when its inputs change.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save or a git
// checkout produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches directory trees and individual files.
type Watcher struct {
	// Dirs are watched recursively; .git directories are skipped.
	Dirs []string
	// Files are watched individually.
	Files []string
	// Ignore reports whether an event for path is dropped.
	Ignore   func(path string) bool
	Debounce time.Duration
}

// Run calls fn after every settled burst of changes until ctx is done.
// Errors returned by fn are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer fw.Close()

	for _, dir := range w.Dirs {
		if err := addTree(fw, dir); err != nil {
			return err
		}
	}
	for _, f := range w.Files {
		if err := fw.Add(f); err != nil {
			return errors.MissingPath(err, f)
		}
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || w.ignored(event.Name) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories inside a watched tree are watched too.
				_ = addTree(fw, event.Name)
			}
			logger.Debugw("change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			if err := fn(ctx); err != nil {
				logger.Errorw("rebuild failed", "error", err)
				for _, hint := range errors.GetAllHints(err) {
					logger.Infow(hint)
				}
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watcher error", "error", err)
		}
	}
}

func (w *Watcher) ignored(path string) bool {
	if isBackupFile(path) {
		return true
	}
	return w.Ignore != nil && w.Ignore(path)
}

// addTree watches root and every directory below it. A root that is a
// file is ignored.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.MissingPath(err, p)
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
}

// isBackupFile reports editor temporaries.
func isBackupFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasPrefix(base, ".#")
}

// Within returns an Ignore function dropping every path under dir.
func Within(dir string) func(string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return func(path string) bool {
		p, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		rel, err := filepath.Rel(abs, p)
		return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}
}
