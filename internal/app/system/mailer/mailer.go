// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Email is one outbound message with both plain-text and HTML bodies.
type Email struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers email. The zero-config Mailer logs instead of sending,
// so environments without an API key still work.
type Sender interface {
	Send(msg Email) error
}

// Mailer delivers email through SendGrid.
type Mailer struct {
	key      string
	fromName string
	fromAddr string
	log      *zap.Logger
}

// New creates a Mailer. An empty apiKey yields a log-only mailer.
func New(apiKey, fromName, fromAddr string, log *zap.Logger) *Mailer {
	return &Mailer{key: apiKey, fromName: fromName, fromAddr: fromAddr, log: log}
}

// Send delivers the message, or logs it when no API key is configured.
func (m *Mailer) Send(msg Email) error {
	if m.key == "" {
		m.log.Info("email suppressed (no api key)",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return nil
	}

	from := sgmail.NewEmail(m.fromName, m.fromAddr)
	to := sgmail.NewEmail(msg.ToName, msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	resp, err := sendgrid.NewSendClient(m.key).Send(message)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send email to %s: status %d: %s", msg.To, resp.StatusCode, resp.Body)
	}
	return nil
}
