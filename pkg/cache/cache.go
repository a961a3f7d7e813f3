// Package cache carries page-cache invalidations from record saves to the
// collaborator that owns the cached pages.
package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Invalidation names the cached pages made stale by a record change.
// Keys are paths relative to the cache root, e.g. "bills/road_user_charges.cache".
type Invalidation struct {
	// Reason is a short description of the change, for logging.
	Reason string

	Keys []string
}

// Sink receives invalidations.
type Sink interface {
	Invalidate(inv Invalidation) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Invalidation) error

// Invalidate calls f.
func (f SinkFunc) Invalidate(inv Invalidation) error {
	return f(inv)
}

// Discard is a sink that drops every invalidation.
var Discard Sink = SinkFunc(func(Invalidation) error { return nil })

// Recorder collects invalidations in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Invalidation
}

// Invalidate records inv.
func (r *Recorder) Invalidate(inv Invalidation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, inv)
	return nil
}

// Events returns the recorded invalidations in arrival order.
func (r *Recorder) Events() []Invalidation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Invalidation(nil), r.events...)
}

// Keys returns every recorded key in arrival order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	for _, inv := range r.events {
		keys = append(keys, inv.Keys...)
	}
	return keys
}

// FileExpirer deletes cached page files under Root.
type FileExpirer struct {
	Root   string
	Logger *slog.Logger
}

// NewFileExpirer returns an expirer for the cache rooted at root.
func NewFileExpirer(root string, logger *slog.Logger) *FileExpirer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileExpirer{Root: root, Logger: logger}
}

// Invalidate removes the file for each key that exists. Keys escaping the
// root are rejected.
func (e *FileExpirer) Invalidate(inv Invalidation) error {
	var errs []error
	for _, key := range inv.Keys {
		path, err := e.path(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		err = os.Remove(path)
		switch {
		case err == nil:
			e.Logger.Info("deleting cached page", "path", path, "reason", inv.Reason)
		case errors.Is(err, fs.ErrNotExist):
		default:
			errs = append(errs, fmt.Errorf("expiring %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (e *FileExpirer) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("cache key %q escapes cache root", key)
	}
	return filepath.Join(e.Root, clean), nil
}
