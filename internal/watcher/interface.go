package watcher

import (
	"context"
	"errors"
)

// Watcher monitors the input tree for new media files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// ErrRetry, when wrapped by a handler error, asks the watcher to hand the
// same file to the handler again after a delay.
var ErrRetry = errors.New("retry later")

// EventHandler processes one media file. A returned error is logged and
// does not stop the watcher; errors wrapping ErrRetry are retried.
type EventHandler func(ctx context.Context, mediaPath string) error
