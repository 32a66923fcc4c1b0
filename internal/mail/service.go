// internal/mail/service.go
package mail

import (
	"context"
	"errors"
)

// ErrDeliveryFailed is returned when the transport cannot complete a send.
// Callers decide what to do with it; the overdue scanner just logs it.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Service sends one message to all recipients in a single transport call.
type Service interface {
	SendBatch(ctx context.Context, subject, body string, to []string) error
}
