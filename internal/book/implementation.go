// internal/book/implementation.go
package book

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"libraryapi/internal/web"
)

// service implements the Service interface.
type service struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new book service instance.
func NewService(store Store, logger zerolog.Logger) Service {
	return &service{
		store:  store,
		logger: logger.With().Str("component", "book").Logger(),
		now:    time.Now,
	}
}

// Create registers a new book. The isbn must not already be in use; the
// store does not enforce this, the check happens here.
func (s *service) Create(ctx context.Context, b *Book) (*Book, error) {
	exists, err := s.store.ExistsByISBN(ctx, b.ISBN)
	if err != nil {
		return nil, fmt.Errorf("check isbn: %w", err)
	}
	if exists {
		return nil, web.NewBusinessError("Isbn already registered")
	}

	b.ID = uuid.New()
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	if err := s.store.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save book: %w", err)
	}

	s.logger.Info().Str("id", b.ID.String()).Str("isbn", b.ISBN).Msg("book created")
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	return s.store.FindByID(ctx, id)
}

func (s *service) GetByISBN(ctx context.Context, isbn string) (*Book, error) {
	return s.store.FindByISBN(ctx, isbn)
}

// Update persists the given book state. The isbn is immutable after
// creation; callers copy only title and author onto a fetched book.
func (s *service) Update(ctx context.Context, b *Book) (*Book, error) {
	b.UpdatedAt = s.now()
	if err := s.store.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id.String()).Msg("book deleted")
	return nil
}
