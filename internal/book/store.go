// internal/book/store.go
package book

import (
	"context"

	"github.com/google/uuid"
)

// Store holds book records. Lookups return ErrNotFound when nothing matches.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Book, error)
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Save(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}
