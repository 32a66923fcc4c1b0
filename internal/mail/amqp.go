// internal/mail/amqp.go
package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const notificationRoutingKey = "notifications.overdue"

// AMQPSender hands batches to a message broker; an external mailer consumes
// them from there. One published message carries the whole batch.
type AMQPSender struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	from     string
}

type notificationMessage struct {
	From    string   `json:"from"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	To      []string `json:"to"`
}

// NewAMQPSender dials the broker and declares the topic exchange.
func NewAMQPSender(url, exchange, from string) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPSender{conn: conn, ch: ch, exchange: exchange, from: from}, nil
}

func (s *AMQPSender) SendBatch(ctx context.Context, subject, body string, to []string) error {
	payload, err := json.Marshal(notificationMessage{
		From:    s.from,
		Subject: subject,
		Body:    body,
		To:      to,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	err = s.ch.PublishWithContext(ctx, s.exchange, notificationRoutingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        payload,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	return s.conn.Close()
}
