package uploads

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("upload not found")

// Record is one uploaded media file or link, numbered per user.
// An empty Language means auto-detection.
type Record struct {
	UserID    string
	Index     int
	VideoID   string
	VideoLink string
	FilePath  string
	Language  string
	CreatedAt time.Time
}

// Store keeps the per-user upload history.
type Store interface {
	// NextIndex returns one past the highest index recorded for user, starting at 1.
	NextIndex(ctx context.Context, user string) (int, error)
	// Create stores rec under the next free index for rec.UserID and returns it
	// with Index and VideoID filled in. Allocation and insert are one statement,
	// so concurrent uploads from one user never share an index.
	Create(ctx context.Context, rec Record) (Record, error)
	// Insert stores rec under the index it already carries.
	Insert(ctx context.Context, rec Record) error
	// ListByUser returns the user's uploads ordered by index.
	ListByUser(ctx context.Context, user string) ([]Record, error)
	Get(ctx context.Context, user string, idx int) (Record, error)
	Close() error
}
