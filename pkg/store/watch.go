package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"gopkg.in/fsnotify.v1"
)

// Watch calls onChange with the freshly loaded dataset each time the file
// at path is written or replaced, until ctx is cancelled. Parse failures
// are logged and watching continues.
//
// The containing directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still seen.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Dataset)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			ds, err := LoadDataset(path)
			if err != nil {
				logger.Error("reloading dataset", "path", path, "error", err)
				continue
			}
			logger.Info("dataset changed", "path", path, "op", event.Op.String())
			onChange(ds)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watching dataset", "path", path, "error", err)
		}
	}
}
