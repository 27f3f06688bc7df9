package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBusy              = errors.New("user already has an active session")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNotFound          = errors.New("session not found")
	// ErrSuperseded is the cancellation cause of a session replaced by a newer upload.
	ErrSuperseded = errors.New("session superseded by a newer upload")
)

// State is a step of one upload's lifecycle.
type State string

const (
	AwaitingLanguage State = "awaiting_language"
	Transcribing     State = "transcribing"
	Summarizing      State = "summarizing"
	Done             State = "done"
	Failed           State = "failed"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// Policy decides what Begin does when the user already has a live session.
type Policy string

const (
	Reject  Policy = "reject"
	Replace Policy = "replace"
)

// Session is a snapshot of one user's upload being processed.
type Session struct {
	ID   string
	User string
	// VideoID is empty until the upload is recorded.
	VideoID   string
	MediaPath string
	// Language is empty until chosen, "auto" for detection.
	Language  string
	State     State
	Reason    string
	StartedAt time.Time
	UpdatedAt time.Time
}

// Manager tracks at most one live session per user.
type Manager interface {
	// Begin claims the user for a new upload. The returned context is derived
	// from ctx and is cancelled once the session ends; a replaced session's
	// context carries ErrSuperseded as its cause.
	Begin(ctx context.Context, user, mediaPath string) (Session, context.Context, error)
	// AttachUpload records the upload's video ID on a live session.
	AttachUpload(id, videoID string) (Session, error)
	SelectLanguage(id, language string) (Session, error)
	Advance(id string, to State) (Session, error)
	Fail(id, reason string) (Session, error)
	Get(id string) (Session, error)
	// Active returns the user's live session, if any.
	Active(user string) (Session, bool)
}
