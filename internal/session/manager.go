package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var transitions = map[State][]State{
	AwaitingLanguage: {Transcribing, Failed},
	Transcribing:     {Summarizing, Failed},
	Summarizing:      {Done, Failed},
}

type implManager struct {
	mu     sync.Mutex
	policy Policy
	byID   map[string]*Session
	active map[string]string // user -> session ID
	cancel map[string]context.CancelCauseFunc
	now    func() time.Time
}

// New creates an in-memory Manager. Unknown policies behave as Reject.
func New(policy Policy) Manager {
	if policy != Replace {
		policy = Reject
	}
	return &implManager{
		policy: policy,
		byID:   make(map[string]*Session),
		active: make(map[string]string),
		cancel: make(map[string]context.CancelCauseFunc),
		now:    time.Now,
	}
}

func (m *implManager) Begin(ctx context.Context, user, mediaPath string) (Session, context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.active[user]; ok {
		old := m.byID[id]
		if m.policy == Reject {
			return *old, nil, fmt.Errorf("%w: %s is %s", ErrBusy, old.ID, old.State)
		}
		m.finishWithCause(old, Failed, "superseded", ErrSuperseded)
	}

	now := m.now()
	s := &Session{
		ID:        uuid.New().String(),
		User:      user,
		MediaPath: mediaPath,
		State:     AwaitingLanguage,
		StartedAt: now,
		UpdatedAt: now,
	}
	sctx, cancel := context.WithCancelCause(ctx)
	m.byID[s.ID] = s
	m.active[user] = s.ID
	m.cancel[s.ID] = cancel
	return *s, sctx, nil
}

func (m *implManager) AttachUpload(id, videoID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if s.State.Terminal() {
		return *s, fmt.Errorf("%w: session is %s", ErrInvalidTransition, s.State)
	}
	s.VideoID = videoID
	s.UpdatedAt = m.now()
	return *s, nil
}

// SelectLanguage records the language and moves the session on to Transcribing.
// An empty language means auto-detection.
func (m *implManager) SelectLanguage(id, language string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if s.State != AwaitingLanguage {
		return *s, fmt.Errorf("%w: language already chosen (%s)", ErrInvalidTransition, s.State)
	}
	if language == "" {
		language = "auto"
	}
	s.Language = language
	if err := m.move(s, Transcribing); err != nil {
		return *s, err
	}
	return *s, nil
}

func (m *implManager) Advance(id string, to State) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if err := m.move(s, to); err != nil {
		return *s, err
	}
	return *s, nil
}

func (m *implManager) Fail(id, reason string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if s.State.Terminal() {
		return *s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, Failed)
	}
	m.finish(s, Failed, reason)
	return *s, nil
}

func (m *implManager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return *s, nil
}

func (m *implManager) Active(user string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.active[user]
	if !ok {
		return Session{}, false
	}
	return *m.byID[id], true
}

// move must be called with mu held.
func (m *implManager) move(s *Session, to State) error {
	for _, next := range transitions[s.State] {
		if next == to {
			if to.Terminal() {
				m.finish(s, to, "")
			} else {
				s.State = to
				s.UpdatedAt = m.now()
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
}

// finish must be called with mu held.
func (m *implManager) finish(s *Session, to State, reason string) {
	m.finishWithCause(s, to, reason, nil)
}

// finishWithCause must be called with mu held. A nil cause cancels the
// session context with context.Canceled.
func (m *implManager) finishWithCause(s *Session, to State, reason string, cause error) {
	s.State = to
	s.Reason = reason
	s.UpdatedAt = m.now()
	if m.active[s.User] == s.ID {
		delete(m.active, s.User)
	}
	if cancel, ok := m.cancel[s.ID]; ok {
		cancel(cause)
		delete(m.cancel, s.ID)
	}
}
