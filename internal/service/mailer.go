package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/metrics"
	"github.com/eventure/eventure-api/internal/utils"
)

// MailMessage is one outgoing email.
type MailMessage struct {
	ToEmail   string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer sends email through a configured transport.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
	// Mode names the transport: "sendgrid" or "fallback".
	Mode() string
}

// NewMailer selects SendGrid when an API key is configured and the logging
// fallback otherwise.
func NewMailer(cfg *config.MailSettings, m *metrics.Metrics) Mailer {
	fromName, fromAddress := constants.DefaultMailFromName, constants.DefaultMailFromAddress
	if cfg != nil {
		if cfg.FromName != "" {
			fromName = cfg.FromName
		}
		if cfg.FromAddress != "" {
			fromAddress = cfg.FromAddress
		}
	}

	if cfg == nil || cfg.SendGridAPIKey == "" {
		log.Warn().Msg("No mail transport configured, emails will be logged instead of sent")
		return &LogMailer{fromName: fromName, fromAddress: fromAddress, metrics: m}
	}

	return NewSendGridMailer(cfg.SendGridAPIKey, fromName, fromAddress, m)
}

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client  *sendgrid.Client
	from    *mail.Email
	metrics *metrics.Metrics
}

// NewSendGridMailer creates a SendGrid backed Mailer.
func NewSendGridMailer(apiKey, fromName, fromAddress string, m *metrics.Metrics) *SendGridMailer {
	return &SendGridMailer{
		client:  sendgrid.NewSendClient(apiKey),
		from:    mail.NewEmail(fromName, fromAddress),
		metrics: m,
	}
}

// Mode returns "sendgrid".
func (s *SendGridMailer) Mode() string {
	return constants.MailModeSendGrid
}

// Send delivers msg. Non-2xx API responses are errors.
func (s *SendGridMailer) Send(ctx context.Context, msg MailMessage) error {
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(s.from, msg.Subject, to, msg.PlainText, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && (response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices) {
		err = fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	s.metrics.ObserveMail(s.Mode(), err)

	if err != nil {
		log.Error().
			Err(err).
			Str("to", utils.MaskEmail(msg.ToEmail)).
			Str("subject", msg.Subject).
			Msg("Failed to send email")
		return err
	}

	log.Info().
		Int("status_code", response.StatusCode).
		Str("to", utils.MaskEmail(msg.ToEmail)).
		Str("subject", msg.Subject).
		Msg("Email sent")
	return nil
}

// LogMailer writes messages to the log instead of sending them.
// It is the only place a reset code ever reaches the logs.
type LogMailer struct {
	fromName    string
	fromAddress string
	metrics     *metrics.Metrics
}

// Mode returns "fallback".
func (l *LogMailer) Mode() string {
	return constants.MailModeFallback
}

// Send logs the message body.
func (l *LogMailer) Send(_ context.Context, msg MailMessage) error {
	log.Info().
		Str("from", fmt.Sprintf("%s <%s>", l.fromName, l.fromAddress)).
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("body", msg.PlainText).
		Msg("Email (fallback transport)")
	l.metrics.ObserveMail(l.Mode(), nil)
	return nil
}

// resetCodeMessage builds the email carrying a reset code.
func resetCodeMessage(email, name, code string, ttl time.Duration) MailMessage {
	minutes := int(ttl.Minutes())
	return MailMessage{
		ToEmail: email,
		ToName:  name,
		Subject: "Your Eventure password reset code",
		PlainText: fmt.Sprintf(
			"Your password reset code is %s. It expires in %d minutes. If you did not request a reset, you can ignore this email.",
			code, minutes),
		HTML: fmt.Sprintf(
			"<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in %d minutes. If you did not request a reset, you can ignore this email.</p>",
			code, minutes),
	}
}

// testMessage is sent by the development test-email endpoint.
func testMessage(to string) MailMessage {
	return MailMessage{
		ToEmail:   to,
		Subject:   "Eventure test email",
		PlainText: "This is a test email from the Eventure API.",
		HTML:      "<p>This is a test email from the Eventure API.</p>",
	}
}

// SendTestEmail sends a fixed test message through m.
func SendTestEmail(ctx context.Context, m Mailer, to string) error {
	return m.Send(ctx, testMessage(to))
}
