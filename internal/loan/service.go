// internal/loan/service.go
package loan

import (
	"context"

	"github.com/google/uuid"

	"libraryapi/internal/book"
)

// Service defines the interface for the loan service.
type Service interface {
	Create(ctx context.Context, b *book.Book, customer, email string) (*Loan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	Update(ctx context.Context, l *Loan) (*Loan, error)
	Find(ctx context.Context, filter Filter, page, size int) (*Page, error)
	Overdue(ctx context.Context) ([]Loan, error)
}
