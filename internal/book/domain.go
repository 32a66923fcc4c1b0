// internal/book/domain.go
package book

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a book id or isbn resolves to nothing.
var ErrNotFound = errors.New("book not found")

// Book is a title in the library catalog. The isbn is assigned at creation
// and never changes afterwards; updates touch title and author only.
type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	ISBN      string    `json:"isbn" db:"isbn"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
