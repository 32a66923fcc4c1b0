// internal/mail/log.go
package mail

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// LogSender writes batches to the log instead of delivering them. It is the
// default transport so the service runs without SMTP or a broker configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "mail").Logger()}
}

func (s *LogSender) SendBatch(_ context.Context, subject, body string, to []string) error {
	s.logger.Info().
		Str("subject", subject).
		Str("body", body).
		Str("to", strings.Join(to, ", ")).
		Msg("mail batch (log transport)")
	return nil
}
