// internal/schedule/overdue.go
package schedule

import (
	"context"

	"github.com/rs/zerolog"

	"libraryapi/internal/loan"
	"libraryapi/internal/mail"
)

// OverdueNotifier is the daily job that mails every customer holding an
// overdue loan. Delivery failures are logged and dropped: no retry, no
// partial-success tracking.
type OverdueNotifier struct {
	loans   loan.Service
	mailer  mail.Service
	subject string
	body    string
	logger  zerolog.Logger
}

// NewOverdueNotifier wires the job to the loan service and the dispatcher.
func NewOverdueNotifier(loans loan.Service, mailer mail.Service, subject, body string, logger zerolog.Logger) *OverdueNotifier {
	return &OverdueNotifier{
		loans:   loans,
		mailer:  mailer,
		subject: subject,
		body:    body,
		logger:  logger.With().Str("component", "overdue-notifier").Logger(),
	}
}

// Run performs one scan-and-notify pass.
func (n *OverdueNotifier) Run(ctx context.Context) {
	overdue, err := n.loans.Overdue(ctx)
	if err != nil {
		n.logger.Error().Err(err).Msg("querying overdue loans failed")
		return
	}

	emails := make([]string, 0, len(overdue))
	for _, l := range overdue {
		if l.Email != "" {
			emails = append(emails, l.Email)
		}
	}
	if len(emails) == 0 {
		n.logger.Debug().Msg("no overdue loans")
		return
	}

	if err := n.mailer.SendBatch(ctx, n.subject, n.body, emails); err != nil {
		n.logger.Error().Err(err).Int("recipients", len(emails)).Msg("overdue notification failed")
		return
	}
	n.logger.Info().Int("recipients", len(emails)).Msg("overdue notifications sent")
}
