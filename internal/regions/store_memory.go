package regions

import (
	"context"
	"sort"
	"sync"

	"bhulekh/internal/domain"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	states    map[int]domain.State
	districts map[int]domain.District
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		states:    make(map[int]domain.State),
		districts: make(map[int]domain.District),
	}
}

func (s *InMemoryStore) ListStates(_ context.Context) ([]domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.State, 0, len(s.states))
	for _, state := range s.states {
		out = append(out, state)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) StateByID(_ context.Context, id int) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.states[id]; ok {
		return state, nil
	}
	return domain.State{}, ErrNotFound
}

func (s *InMemoryStore) StateByCode(_ context.Context, code string) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, state := range s.states {
		if state.Code == code {
			return state, nil
		}
	}
	return domain.State{}, ErrNotFound
}

func (s *InMemoryStore) StateByName(_ context.Context, name string) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, state := range s.states {
		if state.Name == name {
			return state, nil
		}
	}
	return domain.State{}, ErrNotFound
}

func (s *InMemoryStore) DistrictByID(_ context.Context, id int) (domain.District, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if district, ok := s.districts[id]; ok {
		return district, nil
	}
	return domain.District{}, ErrNotFound
}

func (s *InMemoryStore) DistrictsByState(_ context.Context, stateID int) ([]domain.District, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.District
	for _, district := range s.districts {
		if district.StateID == stateID {
			out = append(out, district)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) SaveState(_ context.Context, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ID] = state
	return nil
}

func (s *InMemoryStore) SaveDistrict(_ context.Context, district domain.District) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.districts[district.ID] = district
	return nil
}
