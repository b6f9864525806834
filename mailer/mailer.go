package mailer

import (
	"context"
	"fmt"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is one outgoing email
type Message struct {
	ToName    string
	ToEmail   string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer sends transactional email
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid mailer, or Nop when apiKey is empty
func New(apiKey, fromEmail, fromName string) Mailer {
	if apiKey == "" {
		zap.S().Infow("SENDGRID_API_KEY not set, emails will be logged and dropped")
		return Nop{}
	}
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

// SendGrid delivers email through the SendGrid v3 API
type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
}

// Send delivers msg. A non-2xx response is returned as an error.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(s.from, msg.Subject, to, msg.PlainText, msg.HTML)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		zap.S().Errorw("failed to send email", "error", err, "to", msg.ToEmail)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.ToEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}

// Nop drops every message
type Nop struct{}

// Send logs and discards msg
func (Nop) Send(_ context.Context, msg Message) error {
	zap.S().Debugw("email dropped", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}

// Recorder keeps sent messages in memory
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

// Send records msg and returns r.Err
func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.Err
}

// Sent returns a copy of the recorded messages
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}
