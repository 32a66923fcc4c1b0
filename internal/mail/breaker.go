// internal/mail/breaker.go
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
)

// Breaker wraps a sender with a circuit breaker so a dead transport is not
// hammered on every scheduler run. It adds no retries.
type Breaker struct {
	next Service
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps the given sender with default breaker settings.
func NewBreaker(next Service) *Breaker {
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "mail-transport"}),
	}
}

func (b *Breaker) SendBatch(ctx context.Context, subject, body string, to []string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SendBatch(ctx, subject, body, to)
	})
	if err != nil && !errors.Is(err, ErrDeliveryFailed) {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return err
}
