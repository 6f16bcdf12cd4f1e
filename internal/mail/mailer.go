package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

var (
	// ErrSendFailed is returned when the relay rejects or cannot accept a message.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidMessage is returned for a message with no recipient or sender.
	ErrInvalidMessage = errors.New("invalid email message")
)

// Message is a plain-text email.
type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Validate checks that the message can be delivered.
func (m Message) Validate() error {
	if strings.TrimSpace(m.From) == "" {
		return fmt.Errorf("%w: sender is required", ErrInvalidMessage)
	}
	return m.validateContent()
}

// validateContent checks recipients and subject. The sender is checked
// only by mailers that put it on the wire.
func (m Message) validateContent() error {
	if len(m.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidMessage)
	}
	for _, to := range m.To {
		if strings.ContainsAny(to, "\r\n") || strings.TrimSpace(to) == "" {
			return fmt.Errorf("%w: bad recipient", ErrInvalidMessage)
		}
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		return fmt.Errorf("%w: subject must be a single line", ErrInvalidMessage)
	}
	return nil
}

// Mailer delivers messages. Implementations fail fast: there is no retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer logs messages instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

var _ Mailer = (*LogMailer)(nil)

// NewLogMailer creates a LogMailer.
func NewLogMailer(l *slog.Logger) *LogMailer {
	if l == nil {
		l = slog.Default()
	}
	return &LogMailer{logger: l.With("component", "log_mailer")}
}

// Send implements Mailer. An empty sender is accepted since nothing is
// relayed.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validateContent(); err != nil {
		return err
	}
	log := logger.FromContextOrDefault(ctx, m.logger)
	log.InfoContext(ctx, "email delivery disabled, logging message",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body)
	return nil
}
