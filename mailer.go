package main

import (
	"fmt"
	"log/slog"

	"dally/models"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends plain-text mail over SMTP. A nil Mailer is valid and means
// "log instead of send", so local development and tests need no mail server.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

var mailer *Mailer

func newMailerFromConfig(cfg Config) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// deliver sends best-effort: a failed or unconfigured mailer only logs.
// Account operations never fail because mail did.
func deliver(to, subject, body string) {
	if mailer == nil {
		slog.Info("mail not configured, skipping send", "to", to, "subject", subject)
		return
	}
	if err := mailer.Send(to, subject, body); err != nil {
		slog.Warn("failed to send email", "to", to, "subject", subject, "error", err)
	}
}

func sendWelcomeEmail(user models.User, business models.Business) {
	name := user.FirstName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`Hello %s,

Welcome to Dally Bookkeeping! Your account has been successfully created.

Business: %s
Email: %s

You can now log in using your email address and start managing your bookkeeping records.

Best regards,
Dally Bookkeeping Team
`, name, business.Name, user.Email)
	deliver(user.Email, "Welcome to Dally Bookkeeping!", body)
}

func sendPasswordResetEmail(user models.User, resetURL string) {
	body := fmt.Sprintf(`Hello,

We received a request to reset the password for your account.

Open the link below to choose a new password. The link is valid for a
limited time and can be used once.

%s

If you did not request this, you can safely ignore this email.

Best regards,
Dally Bookkeeping Team
`, resetURL)
	deliver(user.Email, "Reset your Dally Bookkeeping password", body)
}
