// internal/loan/store.go
package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store holds loan records. Create is atomic with respect to the
// one-active-loan-per-book rule: of two concurrent creates for the same
// book, exactly one succeeds and the other gets ErrActiveLoanExists.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	Create(ctx context.Context, l *Loan) error
	Update(ctx context.Context, l *Loan) error
	ExistsActiveForBook(ctx context.Context, bookID uuid.UUID) (bool, error)
	Find(ctx context.Context, filter Filter, page, size int) (*Page, error)
	FindOverdue(ctx context.Context, cutoff time.Time) ([]Loan, error)
}
