// internal/loan/postgres.go
package loan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libraryapi/internal/book"
)

const (
	dialectPostgres = "postgres"

	// Name of the partial unique index over active loans; a violation means
	// the book already has an unreturned loan.
	activeLoanConstraint = "loans_one_active_per_book"

	pqUniqueViolation = "23505"
)

// PostgresStore is the Postgres-backed loan store. The one-active-loan
// invariant is enforced by a partial unique index, so racing inserts are
// rejected by the database itself.
type PostgresStore struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewPostgresStore creates a loan store on top of an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("libraryapi/loanstore"),
	}
}

// loanRow carries a loan joined with its book.
type loanRow struct {
	ID         uuid.UUID    `db:"id"`
	BookID     uuid.UUID    `db:"book_id"`
	Customer   string       `db:"customer"`
	Email      string       `db:"email"`
	LoanDate   time.Time    `db:"loan_date"`
	Returned   sql.NullBool `db:"returned"`
	BookTitle  string       `db:"book_title"`
	BookAuthor string       `db:"book_author"`
	BookISBN   string       `db:"book_isbn"`
}

func (r loanRow) toLoan() Loan {
	l := Loan{
		ID:       r.ID,
		BookID:   r.BookID,
		Customer: r.Customer,
		Email:    r.Email,
		LoanDate: r.LoanDate,
		Book: &book.Book{
			ID:     r.BookID,
			Title:  r.BookTitle,
			Author: r.BookAuthor,
			ISBN:   r.BookISBN,
		},
	}
	if r.Returned.Valid {
		v := r.Returned.Bool
		l.Returned = &v
	}
	return l
}

const joinedColumns = `
	l.id, l.book_id, l.customer, l.email, l.loan_date, l.returned,
	b.title AS book_title, b.author AS book_author, b.isbn AS book_isbn`

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Loan, error) {
	ctx, span := s.tracer.Start(ctx, "loanstore.find_by_id",
		trace.WithAttributes(attribute.String("loan.id", id.String())),
	)
	defer span.End()

	var row loanRow
	err := s.db.GetContext(ctx, &row, `
		SELECT`+joinedColumns+`
		FROM loans l JOIN books b ON b.id = l.book_id
		WHERE l.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find loan by id: %w", err)
	}
	l := row.toLoan()
	return &l, nil
}

func (s *PostgresStore) Create(ctx context.Context, l *Loan) error {
	ctx, span := s.tracer.Start(ctx, "loanstore.create",
		trace.WithAttributes(
			attribute.String("loan.id", l.ID.String()),
			attribute.String("book.id", l.BookID.String()),
		),
	)
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (id, book_id, customer, email, loan_date, returned)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.BookID, l.Customer, l.Email, l.LoanDate, returnedValue(l))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation && pqErr.Constraint == activeLoanConstraint {
			return ErrActiveLoanExists
		}
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, l *Loan) error {
	ctx, span := s.tracer.Start(ctx, "loanstore.update",
		trace.WithAttributes(attribute.String("loan.id", l.ID.String())),
	)
	defer span.End()

	res, err := s.db.ExecContext(ctx, `
		UPDATE loans SET customer = $2, email = $3, returned = $4 WHERE id = $1`,
		l.ID, l.Customer, l.Email, returnedValue(l))
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ExistsActiveForBook(ctx context.Context, bookID uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "loanstore.exists_active",
		trace.WithAttributes(attribute.String("book.id", bookID.String())),
	)
	defer span.End()

	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM loans WHERE book_id = $1 AND returned IS NOT TRUE
		)`, bookID)
	if err != nil {
		return false, fmt.Errorf("check active loan: %w", err)
	}
	return exists, nil
}

// Find returns loans matching isbn OR customer, joined with their books.
// With both filter fields empty the predicate is dropped entirely and every
// loan matches, mirroring the documented query semantics.
func (s *PostgresStore) Find(ctx context.Context, filter Filter, page, size int) (*Page, error) {
	ctx, span := s.tracer.Start(ctx, "loanstore.find",
		trace.WithAttributes(
			attribute.String("filter.isbn", filter.ISBN),
			attribute.String("filter.customer", filter.Customer),
			attribute.Int("page", page),
			attribute.Int("size", size),
		),
	)
	defer span.End()

	base := goqu.Dialect(dialectPostgres).
		From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id"))))

	conditions := make([]goqu.Expression, 0, 2)
	if filter.ISBN != "" {
		conditions = append(conditions, goqu.I("b.isbn").Eq(filter.ISBN))
	}
	if filter.Customer != "" {
		conditions = append(conditions, goqu.I("l.customer").Eq(filter.Customer))
	}
	if len(conditions) > 0 {
		base = base.Where(goqu.Or(conditions...))
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, fmt.Errorf("count loans: %w", err)
	}

	pageSQL, pageArgs, err := base.
		Select(
			goqu.I("l.id"), goqu.I("l.book_id"), goqu.I("l.customer"),
			goqu.I("l.email"), goqu.I("l.loan_date"), goqu.I("l.returned"),
			goqu.I("b.title").As("book_title"),
			goqu.I("b.author").As("book_author"),
			goqu.I("b.isbn").As("book_isbn"),
		).
		Order(goqu.I("l.loan_date").Desc(), goqu.I("l.id").Asc()).
		Limit(uint(size)).
		Offset(uint(page * size)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build page query: %w", err)
	}

	var rows []loanRow
	if err := s.db.SelectContext(ctx, &rows, pageSQL, pageArgs...); err != nil {
		return nil, fmt.Errorf("find loans: %w", err)
	}

	content := make([]Loan, 0, len(rows))
	for _, row := range rows {
		content = append(content, row.toLoan())
	}
	return &Page{Content: content, TotalElements: total, Page: page, Size: size}, nil
}

// FindOverdue returns active loans dated strictly before the cutoff.
func (s *PostgresStore) FindOverdue(ctx context.Context, cutoff time.Time) ([]Loan, error) {
	ctx, span := s.tracer.Start(ctx, "loanstore.find_overdue",
		trace.WithAttributes(attribute.String("cutoff", cutoff.Format("2006-01-02"))),
	)
	defer span.End()

	var rows []loanRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT`+joinedColumns+`
		FROM loans l JOIN books b ON b.id = l.book_id
		WHERE l.loan_date < $1 AND l.returned IS NOT TRUE
		ORDER BY l.loan_date ASC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find overdue loans: %w", err)
	}

	loans := make([]Loan, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, row.toLoan())
	}
	return loans, nil
}

func returnedValue(l *Loan) sql.NullBool {
	if l.Returned == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *l.Returned, Valid: true}
}
