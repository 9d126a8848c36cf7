package email

import (
	"context"
	"log/slog"
)

// Notifier sends notification emails to a fixed recipient.
type Notifier struct {
	smtp    SMTPConfig
	to      string
	devMode bool
}

// NewNotifier creates a notifier that mails to. In dev mode messages are
// logged instead of sent.
func NewNotifier(cfg SMTPConfig, to string, devMode bool) *Notifier {
	return &Notifier{smtp: cfg, to: to, devMode: devMode}
}

// Notify sends one message. It does not retry.
func (n *Notifier) Notify(ctx context.Context, subject, body string) error {
	if n.devMode {
		slog.InfoContext(ctx, "[DEV] notification", "to", n.to, "subject", subject, "body", body)
		return nil
	}

	if err := Send(ctx, n.smtp, []string{n.to}, subject, body); err != nil {
		slog.ErrorContext(ctx, "email sending failed", "subject", subject, "error", err)
		return err
	}

	slog.InfoContext(ctx, "email sent", "subject", subject)
	return nil
}
