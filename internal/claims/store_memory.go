package claims

import (
	"context"
	"sort"
	"sync"

	"bhulekh/internal/domain"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	claims map[string]domain.Claim
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{claims: make(map[string]domain.Claim)}
}

func (s *InMemoryStore) Create(_ context.Context, claim domain.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[claim.ID] = claim
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (domain.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if claim, ok := s.claims[id]; ok {
		return claim, nil
	}
	return domain.Claim{}, ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, claim domain.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[claim.ID]; !ok {
		return ErrNotFound
	}
	s.claims[claim.ID] = claim
	return nil
}

func (s *InMemoryStore) List(_ context.Context, f Filter) ([]domain.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Claim, 0, len(s.claims))
	for _, claim := range s.claims {
		if matches(claim, f) {
			out = append(out, claim)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func matches(claim domain.Claim, f Filter) bool {
	if f.OfficerID != "" {
		return claim.AssignedOfficer != nil && *claim.AssignedOfficer == f.OfficerID
	}
	if f.State != "" && claim.State != f.State {
		return false
	}
	if f.District != "" && claim.District != f.District {
		return false
	}
	return true
}
