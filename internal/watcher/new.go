package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
)

const (
	defaultSettle     = 500 * time.Millisecond
	defaultRetryDelay = 5 * time.Second
)

// New creates a Watcher over inputDir and every user subdirectory in it.
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		return nil, fmt.Errorf("create input dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := watcher.Add(filepath.Join(inputDir, e.Name())); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("add user dir %s: %w", e.Name(), err)
		}
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:      filepath.Clean(inputDir),
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        defaultSettle,
		retryDelay:    defaultRetryDelay,
		inflight:      make(map[string]struct{}),
	}, nil
}
