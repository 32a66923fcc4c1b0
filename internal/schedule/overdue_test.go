// internal/schedule/overdue_test.go
package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/book"
	"libraryapi/internal/loan"
)

type stubLoanService struct {
	overdue []loan.Loan
	err     error
}

func (s *stubLoanService) Create(context.Context, *book.Book, string, string) (*loan.Loan, error) {
	panic("not used")
}

func (s *stubLoanService) GetByID(context.Context, uuid.UUID) (*loan.Loan, error) {
	panic("not used")
}

func (s *stubLoanService) Update(context.Context, *loan.Loan) (*loan.Loan, error) {
	panic("not used")
}

func (s *stubLoanService) Find(context.Context, loan.Filter, int, int) (*loan.Page, error) {
	panic("not used")
}

func (s *stubLoanService) Overdue(context.Context) ([]loan.Loan, error) {
	return s.overdue, s.err
}

type recordingMailer struct {
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (m *recordingMailer) SendBatch(_ context.Context, _, _ string, to []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, to)
	return nil
}

func TestOverdueNotifierSendsOneBatch(t *testing.T) {
	loans := &stubLoanService{overdue: []loan.Loan{
		{ID: uuid.New(), Email: "pedro@example.com"},
		{ID: uuid.New(), Email: "maria@example.com"},
		{ID: uuid.New()}, // no contact address, skipped
	}}
	mailer := &recordingMailer{}

	n := NewOverdueNotifier(loans, mailer, "subject", "body", zerolog.Nop())
	n.Run(context.Background())

	require.Len(t, mailer.batches, 1)
	assert.Equal(t, []string{"pedro@example.com", "maria@example.com"}, mailer.batches[0])
}

func TestOverdueNotifierNoOverdueLoans(t *testing.T) {
	mailer := &recordingMailer{}

	n := NewOverdueNotifier(&stubLoanService{}, mailer, "subject", "body", zerolog.Nop())
	n.Run(context.Background())

	assert.Empty(t, mailer.batches)
}

func TestOverdueNotifierSwallowsDeliveryFailure(t *testing.T) {
	loans := &stubLoanService{overdue: []loan.Loan{{ID: uuid.New(), Email: "pedro@example.com"}}}
	mailer := &recordingMailer{err: errors.New("transport down")}

	n := NewOverdueNotifier(loans, mailer, "subject", "body", zerolog.Nop())
	// Must not panic and must not propagate anything.
	n.Run(context.Background())

	assert.Empty(t, mailer.batches)
}

func TestOverdueNotifierSwallowsQueryFailure(t *testing.T) {
	loans := &stubLoanService{err: errors.New("store down")}
	mailer := &recordingMailer{}

	n := NewOverdueNotifier(loans, mailer, "subject", "body", zerolog.Nop())
	n.Run(context.Background())

	assert.Empty(t, mailer.batches)
}
