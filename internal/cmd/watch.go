package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/bcnf/internal/errors"
)

// watchFile calls onChange once, then again after each burst of writes to
// path, until ctx is done. The parent directory is watched rather than the
// file, since editors that save by rename replace the watched inode.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to start watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}

	onChange()

	// Debounce events - many editors create multiple events for a single save
	timer := time.NewTimer(0)
	<-timer.C // drain initial timer
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			timer.Reset(debounce)

		case <-timer.C:
			if pending {
				pending = false
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errors.Wrapf(err, "watching %s", path)
		}
	}
}
