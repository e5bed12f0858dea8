package documents

import (
	"context"
	"sort"
	"sync"

	"bhulekh/internal/domain"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[string]domain.Document)}
}

func (s *InMemoryStore) Create(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.docs[id]; ok {
		return doc, nil
	}
	return domain.Document{}, ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; !ok {
		return ErrNotFound
	}
	s.docs[doc.ID] = doc
	return nil
}

func (s *InMemoryStore) List(_ context.Context, f Filter) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if matchesDoc(doc, f) {
			out = append(out, doc)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (s *InMemoryStore) ListPendingReview(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Document
	for _, doc := range s.docs {
		if doc.OCRStatus == domain.OCRCompleted && doc.ReviewStatus == domain.ReviewPending {
			out = append(out, doc)
		}
	}
	sortByCreated(out)
	return out, nil
}

func matchesDoc(doc domain.Document, f Filter) bool {
	if f.ClaimID != "" && (doc.ClaimID == nil || *doc.ClaimID != f.ClaimID) {
		return false
	}
	if f.OCRStatus != "" && doc.OCRStatus != f.OCRStatus {
		return false
	}
	return true
}

func sortByCreated(docs []domain.Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
}
