// internal/book/service.go
package book

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the book service.
type Service interface {
	Create(ctx context.Context, b *Book) (*Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	GetByISBN(ctx context.Context, isbn string) (*Book, error)
	Update(ctx context.Context, b *Book) (*Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
