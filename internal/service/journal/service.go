package journal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mpopa/stress-journal/backend/internal/model/journal"
)

var (
	ErrProfileRequired = errors.New("profile id is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Service encapsulates journal session state. The transcript kept here is
// the short-lived working copy; durable history lives in the history store.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]journal.Session
	messages map[string][]journal.Message
}

// NewService bootstraps the in-memory journal service.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]journal.Session),
		messages: make(map[string][]journal.Message),
	}
}

// CreateSession provisions a session bound to a companion profile.
func (s *Service) CreateSession(_ context.Context, profileID string) (journal.Session, error) {
	if profileID == "" {
		return journal.Session{}, ErrProfileRequired
	}

	session := journal.Session{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = make([]journal.Message, 0, 16)
	s.mu.Unlock()

	return session, nil
}

// SaveMessage appends a message to the session transcript, assigning its
// identifier and monotonic sequence position.
func (s *Service) SaveMessage(_ context.Context, message journal.Message) (journal.Message, error) {
	if message.SessionID == "" {
		return journal.Message{}, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[message.SessionID]; !ok {
		return journal.Message{}, ErrSessionNotFound
	}

	message.ID = uuid.NewString()
	message.Seq = len(s.messages[message.SessionID]) + 1
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	s.messages[message.SessionID] = append(s.messages[message.SessionID], message)
	return message, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (journal.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return journal.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]journal.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]journal.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}
