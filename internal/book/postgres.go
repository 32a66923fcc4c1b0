// internal/book/postgres.go
package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PostgresStore is the Postgres-backed book store.
type PostgresStore struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewPostgresStore creates a book store on top of an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("libraryapi/bookstore"),
	}
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "bookstore.find_by_id",
		trace.WithAttributes(attribute.String("book.id", id.String())),
	)
	defer span.End()

	var b Book
	err := s.db.GetContext(ctx, &b,
		`SELECT id, title, author, isbn, created_at, updated_at FROM books WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book by id: %w", err)
	}
	return &b, nil
}

func (s *PostgresStore) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "bookstore.find_by_isbn",
		trace.WithAttributes(attribute.String("book.isbn", isbn)),
	)
	defer span.End()

	var b Book
	err := s.db.GetContext(ctx, &b,
		`SELECT id, title, author, isbn, created_at, updated_at FROM books WHERE isbn = $1`, isbn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book by isbn: %w", err)
	}
	return &b, nil
}

func (s *PostgresStore) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "bookstore.exists_by_isbn")
	defer span.End()

	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`, isbn)
	if err != nil {
		return false, fmt.Errorf("check isbn exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Save(ctx context.Context, b *Book) error {
	ctx, span := s.tracer.Start(ctx, "bookstore.save",
		trace.WithAttributes(attribute.String("book.id", b.ID.String())),
	)
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, author, isbn, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET title = $2, author = $3, updated_at = $6`,
		b.ID, b.Title, b.Author, b.ISBN, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save book: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "bookstore.delete",
		trace.WithAttributes(attribute.String("book.id", id.String())),
	)
	defer span.End()

	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
