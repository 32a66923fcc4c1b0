// internal/loan/domain.go
package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"libraryapi/internal/book"
)

var (
	// ErrNotFound is returned when a loan id resolves to nothing.
	ErrNotFound = errors.New("loan not found")

	// ErrActiveLoanExists is returned by a store when an insert would leave
	// a book with two unreturned loans.
	ErrActiveLoanExists = errors.New("active loan already exists for book")
)

// Loan records a book being checked out by a customer. The returned flag is
// tri-state: nil means still checked out, false means explicitly marked not
// returned. Both count as active; only true ends the loan.
type Loan struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	BookID   uuid.UUID  `json:"book_id" db:"book_id"`
	Book     *book.Book `json:"book,omitempty" db:"-"`
	Customer string     `json:"customer" db:"customer"`
	Email    string     `json:"email" db:"email"`
	LoanDate time.Time  `json:"loan_date" db:"loan_date"`
	Returned *bool      `json:"returned" db:"returned"`
}

// Active reports whether the loan still counts against the one-active-loan
// invariant and against overdue detection.
func (l *Loan) Active() bool {
	return l.Returned == nil || !*l.Returned
}

// Filter narrows a loan query. Empty fields are ignored; when both are
// empty the query is unconstrained.
type Filter struct {
	ISBN     string
	Customer string
}

// Page is one page of loan results plus the total match count.
type Page struct {
	Content       []Loan `json:"content"`
	TotalElements int64  `json:"totalElements"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
}
