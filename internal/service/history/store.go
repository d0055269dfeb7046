package history

import (
	"context"
	"sync"
	"time"
)

// Entry is one scored journal entry persisted for trend context. The core
// pipeline never reads this store; it is the orchestration layer's record.
type Entry struct {
	ID          string    `json:"id"`
	Tenant      string    `json:"tenant"`
	SessionID   string    `json:"sessionId"`
	Content     string    `json:"content"`
	Emotion     string    `json:"emotion"`
	StressLevel int       `json:"stressLevel"`
	Polarity    float64   `json:"polarity"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store is the narrow recent-history boundary.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, tenant string, limit int) ([]Entry, error)
	Close() error
}

// MemoryStore keeps history in-process, for tests and storage-less runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore returns an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append records an entry.
func (s *MemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Recent returns up to limit entries for the tenant, newest first.
func (s *MemoryStore) Recent(_ context.Context, tenant string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if s.entries[i].Tenant == tenant {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
