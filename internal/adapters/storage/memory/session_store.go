package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

// SessionStore keeps every live session in a map. Sessions are gone when the
// process exits.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Create(ctx context.Context) (*domain.Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(domain.SessionID(id.String())), nil
}

func (s *SessionStore) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return sess, nil
}

func (s *SessionStore) GetOrCreate(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	if id == "" {
		return s.Create(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return s.createLocked(id), nil
}

func (s *SessionStore) createLocked(id domain.SessionID) *domain.Session {
	sess := &domain.Session{
		ID:         id,
		CreatedAt:  s.now(),
		Transcript: NewTranscript(),
	}
	s.sessions[id] = sess
	return sess
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
