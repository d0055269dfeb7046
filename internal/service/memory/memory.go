package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Record is one remembered journal observation.
type Record struct {
	ID        string    `json:"id"`
	Tenant    string    `json:"tenant"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the narrow cross-session memory boundary. The safety core never
// calls it; the orchestration layer persists accepted, non-crisis entries
// and queries for similar past ones on new turns.
type Store interface {
	Save(ctx context.Context, tenant, text string) (Record, error)
	Search(ctx context.Context, tenant, query string, limit int) ([]Record, error)
}

// InMemory implements Store with token-overlap similarity. It stands in for
// a hosted semantic memory service in local deployments and tests.
type InMemory struct {
	mu      sync.RWMutex
	records []Record
}

// NewInMemory returns an empty memory store.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Save persists one observation for the tenant.
func (s *InMemory) Save(_ context.Context, tenant, text string) (Record, error) {
	record := Record{
		ID:        uuid.NewString(),
		Tenant:    tenant,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()

	return record, nil
}

// Search returns the tenant's records most similar to query, best first.
// Records with no token overlap are omitted.
func (s *InMemory) Search(_ context.Context, tenant, query string, limit int) ([]Record, error) {
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 || limit <= 0 {
		return nil, nil
	}

	type scored struct {
		record Record
		score  float64
	}

	s.mu.RLock()
	var candidates []scored
	for _, record := range s.records {
		if record.Tenant != tenant {
			continue
		}
		if score := overlap(queryTokens, tokenSet(record.Text)); score > 0 {
			candidates = append(candidates, scored{record: record, score: score})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Record, len(candidates))
	for i, c := range candidates {
		out[i] = c.record
	}
	return out, nil
}

// overlap is the Jaccard similarity of two token sets.
func overlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for token := range a {
		if b[token] {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

func tokenSet(text string) map[string]bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if len(token) > 2 {
			set[token] = true
		}
	}
	return set
}
