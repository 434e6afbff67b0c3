package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers a rendered message. Implementations can be swapped
// (SendGrid, mock) without changing callers.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is an email ready for delivery.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// SendGridConfig holds the SendGrid credentials and sender identity.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Host overrides the API host, for tests.
	Host string
}

// SendGridSender sends emails via the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *slog.Logger
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *slog.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.FromName == "" {
		cfg.FromName = "EasyFinder AI"
	}

	client := sendgrid.NewSendClient(cfg.APIKey)
	if cfg.Host != "" {
		client.Request.BaseURL = cfg.Host + "/v3/mail/send"
	}

	return &SendGridSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send posts the message to SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("email: sendgrid client not configured")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("email: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return fmt.Errorf("email: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return nil
}

// MockSender logs messages instead of delivering them.
type MockSender struct {
	fromEmail string
	logger    *slog.Logger
}

// NewMockSender creates a sender that always succeeds.
func NewMockSender(fromEmail string, logger *slog.Logger) *MockSender {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MockSender{fromEmail: fromEmail, logger: logger}
}

// Send logs a preview of the message.
func (m *MockSender) Send(_ context.Context, msg Message) error {
	m.logger.Info("mock email",
		"to", msg.To,
		"from", m.fromEmail,
		"subject", msg.Subject,
		"preview", preview(msg.Text, 100))
	return nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
