package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
)

var (
	videoFormats = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".flv"}
	audioFormats = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac"}
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup

	// settle is how long a new file is left alone before it is handled,
	// so copies in progress can finish.
	settle time.Duration
	// retryDelay separates attempts at a file whose handler returned ErrRetry.
	retryDelay time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Start handles media already waiting in the input tree, then monitors it
// for new files. User subdirectories created later are picked up as well.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(append(slices.Clone(videoFormats), audioFormats...), ", "))

	if err := w.scan(ctx, w.inputDir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.handleCreate(ctx, event.Name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) handleCreate(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		w.logger.Debug(ctx, "Ignoring vanished path %s: %v", path, err)
		return nil
	}

	if info.IsDir() {
		if filepath.Dir(path) != w.inputDir {
			return nil
		}
		w.logger.Info(ctx, "New user folder: %s", filepath.Base(path))
		if err := w.watcher.Add(path); err != nil {
			w.logger.Error(ctx, "Failed to watch %s: %v", path, err)
			return nil
		}
		// Files copied in before the watch was added would otherwise be missed.
		return w.scan(ctx, path)
	}

	if !w.accepts(path) {
		w.logger.Debug(ctx, "Ignoring non-media file: %s", path)
		return nil
	}
	w.logger.Info(ctx, "New media detected: %s", path)
	return w.dispatch(ctx, path)
}

// scan dispatches media in dir and, for the input root, in its user folders.
func (w *implWatcher) scan(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if dir == w.inputDir {
				if err := w.scan(ctx, path); err != nil {
					return err
				}
			}
			continue
		}
		if w.accepts(path) {
			if err := w.dispatch(ctx, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// dispatch hands path to a worker goroutine. A path that is already being
// handled, or is waiting for a retry, is skipped.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	if _, busy := w.inflight[path]; busy {
		w.mu.Unlock()
		return nil
	}
	w.inflight[path] = struct{}{}
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx, path)
	return nil
}

// run waits for the file to settle, then handles it until the handler stops
// asking for a retry. The path stays in flight the whole time.
func (w *implWatcher) run(ctx context.Context, path string) {
	defer w.wg.Done()
	defer w.done(path)

	delay := w.settle
	for {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}

		if err := w.handle(ctx, path); !errors.Is(err, ErrRetry) {
			return
		}
		delay = w.retryDelay
	}
}

func (w *implWatcher) handle(ctx context.Context, path string) error {
	// Acquire semaphore slot (blocks if max concurrent reached)
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-w.semaphore }()

	err := w.handler(ctx, path)
	switch {
	case err == nil:
	case errors.Is(err, ErrRetry):
		w.logger.Info(ctx, "Deferring %s, retry in %s: %v", path, w.retryDelay, err)
	default:
		w.logger.Error(ctx, "Failed to process %s: %v", path, err)
	}
	return err
}

func (w *implWatcher) done(path string) {
	w.mu.Lock()
	delete(w.inflight, path)
	w.mu.Unlock()
}

// accepts reports whether path is a media file directly in the input
// directory or in one of its user folders.
func (w *implWatcher) accepts(path string) bool {
	if !IsMediaFile(path) {
		return false
	}
	rel, err := filepath.Rel(w.inputDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return strings.Count(filepath.ToSlash(rel), "/") <= 1
}

// IsMediaFile checks if the file has a supported video or audio extension.
func IsMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(videoFormats, ext) || slices.Contains(audioFormats, ext)
}
