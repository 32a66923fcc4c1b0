// internal/book/memory.go
package book

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed book store used by tests and when the service
// runs without a database.
type MemoryStore struct {
	mu    sync.RWMutex
	books map[uuid.UUID]Book
}

// NewMemoryStore creates an empty in-memory book store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{books: make(map[uuid.UUID]Book)}
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *MemoryStore) FindByISBN(_ context.Context, isbn string) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ISBN == isbn {
			b := b
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Save(_ context.Context, b *Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ID] = *b
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return ErrNotFound
	}
	delete(s.books, id)
	return nil
}
