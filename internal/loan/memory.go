// internal/loan/memory.go
package loan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"libraryapi/internal/book"
)

// MemoryStore is a map-backed loan store. A single mutex spans the
// check-and-insert in Create, which makes it linearizable per book.
type MemoryStore struct {
	mu    sync.RWMutex
	loans map[uuid.UUID]Loan
	books book.Store
}

// NewMemoryStore creates an in-memory loan store. The book store is needed
// to join loans with their books and to filter by isbn.
func NewMemoryStore(books book.Store) *MemoryStore {
	return &MemoryStore{
		loans: make(map[uuid.UUID]Loan),
		books: books,
	}
}

func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*Loan, error) {
	s.mu.RLock()
	l, ok := s.loans[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.attachBook(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *MemoryStore) Create(_ context.Context, l *Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.loans {
		if existing.BookID == l.BookID && existing.Active() {
			return ErrActiveLoanExists
		}
	}
	s.loans[l.ID] = *l
	return nil
}

func (s *MemoryStore) Update(_ context.Context, l *Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[l.ID]; !ok {
		return ErrNotFound
	}
	s.loans[l.ID] = *l
	return nil
}

func (s *MemoryStore) ExistsActiveForBook(_ context.Context, bookID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.loans {
		if l.BookID == bookID && l.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Find(ctx context.Context, filter Filter, page, size int) (*Page, error) {
	s.mu.RLock()
	all := make([]Loan, 0, len(s.loans))
	for _, l := range s.loans {
		all = append(all, l)
	}
	s.mu.RUnlock()

	matches := make([]Loan, 0, len(all))
	for i := range all {
		l := all[i]
		if err := s.attachBook(ctx, &l); err != nil {
			return nil, err
		}
		if matchesFilter(&l, filter) {
			matches = append(matches, l)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].LoanDate.Equal(matches[j].LoanDate) {
			return matches[i].LoanDate.After(matches[j].LoanDate)
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	total := int64(len(matches))
	start := page * size
	if start > len(matches) {
		start = len(matches)
	}
	end := start + size
	if end > len(matches) {
		end = len(matches)
	}

	return &Page{
		Content:       matches[start:end],
		TotalElements: total,
		Page:          page,
		Size:          size,
	}, nil
}

func (s *MemoryStore) FindOverdue(ctx context.Context, cutoff time.Time) ([]Loan, error) {
	s.mu.RLock()
	candidates := make([]Loan, 0, len(s.loans))
	for _, l := range s.loans {
		if l.Active() && l.LoanDate.Before(cutoff) {
			candidates = append(candidates, l)
		}
	}
	s.mu.RUnlock()

	for i := range candidates {
		if err := s.attachBook(ctx, &candidates[i]); err != nil {
			return nil, err
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].LoanDate.Before(candidates[j].LoanDate)
	})
	return candidates, nil
}

// matchesFilter mirrors the stored query: isbn OR customer, unconstrained
// when both are empty.
func matchesFilter(l *Loan, filter Filter) bool {
	if filter.ISBN == "" && filter.Customer == "" {
		return true
	}
	if filter.ISBN != "" && l.Book != nil && l.Book.ISBN == filter.ISBN {
		return true
	}
	return filter.Customer != "" && l.Customer == filter.Customer
}

func (s *MemoryStore) attachBook(ctx context.Context, l *Loan) error {
	b, err := s.books.FindByID(ctx, l.BookID)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			// Books are never deleted out from under a loan in practice;
			// tolerate it rather than fail the whole query.
			return nil
		}
		return fmt.Errorf("attach book to loan: %w", err)
	}
	l.Book = b
	return nil
}
