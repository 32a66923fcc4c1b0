// internal/web/errors.go
package web

import "strings"

// BusinessError is a domain rule violation carrying one or more
// human-readable messages. It maps to a 400 response with an
// {"errors": [...]} body and is never retried.
type BusinessError struct {
	Messages []string
}

// NewBusinessError builds a BusinessError from one or more messages.
func NewBusinessError(messages ...string) *BusinessError {
	return &BusinessError{Messages: messages}
}

func (e *BusinessError) Error() string {
	return strings.Join(e.Messages, "; ")
}
