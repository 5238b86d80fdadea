package store

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore is an in-process document store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, errNotFound(id)
	}
	clone := *doc
	return &clone, nil
}

func (s *MemoryStore) Put(ctx context.Context, doc *Document) error {
	stamp(doc)
	clone := *doc

	s.mu.Lock()
	s.docs[doc.ID] = &clone
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, Summary{ID: doc.ID, Name: doc.Name, UpdatedAt: doc.UpdatedAt})
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return errNotFound(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// sortSummaries orders newest-first, breaking timestamp ties by id so
// listings are stable.
func sortSummaries(out []Summary) {
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

var _ Store = (*MemoryStore)(nil)
