// internal/loan/implementation.go
package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"libraryapi/internal/book"
	"libraryapi/internal/web"
)

// graceDays is how long a loan may stay out before it counts as overdue.
// A loan dated exactly graceDays ago is not overdue yet.
const graceDays = 4

// service implements the Service interface.
type service struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new loan service instance.
func NewService(store Store, logger zerolog.Logger) Service {
	return &service{
		store:  store,
		logger: logger.With().Str("component", "loan").Logger(),
		now:    time.Now,
	}
}

// Create checks out the given book. The availability check here gives the
// friendly error path; the store's Create closes the race window, so of two
// concurrent calls for the same book exactly one wins.
func (s *service) Create(ctx context.Context, b *book.Book, customer, email string) (*Loan, error) {
	exists, err := s.store.ExistsActiveForBook(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("check active loan: %w", err)
	}
	if exists {
		return nil, web.NewBusinessError("Book already loaned")
	}

	l := &Loan{
		ID:       uuid.New(),
		BookID:   b.ID,
		Book:     b,
		Customer: customer,
		Email:    email,
		LoanDate: dateOnly(s.now()),
	}
	if err := s.store.Create(ctx, l); err != nil {
		if errors.Is(err, ErrActiveLoanExists) {
			return nil, web.NewBusinessError("Book already loaned")
		}
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.logger.Info().
		Str("id", l.ID.String()).
		Str("book_id", b.ID.String()).
		Str("customer", customer).
		Msg("loan created")
	return l, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.store.FindByID(ctx, id)
}

// Update persists the loan as-is. Returning a loan can never violate the
// one-active-loan invariant, so no re-validation happens here.
func (s *service) Update(ctx context.Context, l *Loan) (*Loan, error) {
	if err := s.store.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) Find(ctx context.Context, filter Filter, page, size int) (*Page, error) {
	return s.store.Find(ctx, filter, page, size)
}

// Overdue returns every active loan dated strictly before today minus the
// grace period.
func (s *service) Overdue(ctx context.Context) ([]Loan, error) {
	cutoff := dateOnly(s.now()).AddDate(0, 0, -graceDays)
	return s.store.FindOverdue(ctx, cutoff)
}

// dateOnly truncates a timestamp to its calendar date. Loan dates are
// dates, not instants.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
