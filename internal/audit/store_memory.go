package audit

import (
	"context"
	"sync"

	"bhulekh/internal/domain"
)

// InMemoryStore keeps entries in append order; List walks backwards so the
// newest entry comes first.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, q Query) ([]domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AuditEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		if q.ResourceType != "" && entry.ResourceType != q.ResourceType {
			continue
		}
		if q.ResourceID != "" && entry.ResourceID != q.ResourceID {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}
