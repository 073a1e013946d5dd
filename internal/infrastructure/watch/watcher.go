// Package watch follows the payroll file on disk and reports debounced
// changes so callers can reload it.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent describes a change to the watched file.
type ChangeEvent struct {
	Path       string
	ChangeType string // "create", "write", "remove", "rename"
}

// FileWatcher reports changes to a single file. It watches the parent
// directory so that editors which replace the file on save are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(ChangeEvent)
}

func NewFileWatcher(path string, debounce time.Duration, onChange func(ChangeEvent)) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &FileWatcher{
		watcher:  w,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Path is the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled or the watcher fails. A burst of events is
// reported once, after the file has been quiet for the debounce window, with
// the last change seen. onChange runs on the Run goroutine, so a slow reload
// delays later events rather than overlapping them.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	quiet := time.NewTimer(w.debounce)
	quiet.Stop()
	defer quiet.Stop()

	var (
		pending ChangeEvent
		armed   bool
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-quiet.C:
			if !armed {
				continue
			}
			armed = false
			if w.onChange != nil {
				w.onChange(pending)
			}

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" {
				continue
			}
			pending = ChangeEvent{Path: w.path, ChangeType: changeType}
			armed = true
			quiet.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
