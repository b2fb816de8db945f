// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers transactional email over an SMTP relay.

It renders HTML bodies from embedded templates and submits them with PLAIN
authentication. Only two messages exist today: the account confirmation mail
and the password reset mail, both carrying a tokenized frontend link.

Delivery failures propagate to the caller so that registration and reset
flows can surface them instead of silently dropping the mail.
*/
package mailer

import (
	"bytes"
	stdctx "context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"

	"github.com/taibuivan/linkbridge/internal/platform/config"
	"github.com/taibuivan/linkbridge/internal/platform/constants"
)

// Mailer is the notification abstraction used by domain services.
type Mailer interface {
	SendAccountConfirmation(context stdctx.Context, to string, username string, userID string, token string) error
	SendPasswordReset(context stdctx.Context, to string, username string, userID string, token string) error
}

// SMTPMailer implements [Mailer] over a plain SMTP relay.
type SMTPMailer struct {
	host              string
	port              int
	username          string
	password          string
	from              string
	confirmAccountURL string
	resetPasswordURL  string
	logger            *slog.Logger
}

// Enforce interface compliance at compile time.
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer from application configuration.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:              cfg.SMTPHost,
		port:              cfg.SMTPPort,
		username:          cfg.SMTPUsername,
		password:          cfg.SMTPPassword,
		from:              cfg.SMTPFrom,
		confirmAccountURL: cfg.ConfirmAccountURL,
		resetPasswordURL:  cfg.ResetPasswordURL,
		logger:            logger,
	}
}

/*
SendAccountConfirmation emails the confirm-account link to a new user.

The link points at the frontend SPA, which calls back into the API with the
userId and token query parameters.
*/
func (mailer *SMTPMailer) SendAccountConfirmation(context stdctx.Context, to string, username string, userID string, token string) error {
	link := tokenizedLink(mailer.confirmAccountURL, userID, token)

	body, err := renderTemplate(confirmationTemplate, emailData{
		Username: username,
		Link:     link,
	})
	if err != nil {
		return fmt.Errorf("mailer: failed to render confirmation email: %w", err)
	}

	return mailer.deliver(context, to, "Confirm your LinkBridge account", body)
}

/*
SendPasswordReset emails the reset-password link to a user.
*/
func (mailer *SMTPMailer) SendPasswordReset(context stdctx.Context, to string, username string, userID string, token string) error {
	link := tokenizedLink(mailer.resetPasswordURL, userID, token)

	body, err := renderTemplate(resetTemplate, emailData{
		Username: username,
		Link:     link,
	})
	if err != nil {
		return fmt.Errorf("mailer: failed to render reset email: %w", err)
	}

	return mailer.deliver(context, to, "Reset your LinkBridge password", body)
}

// deliver submits one HTML message through the SMTP relay.
//
// net/smtp has no native context support, so delivery runs in a goroutine
// and the caller's context bounds the wait.
func (mailer *SMTPMailer) deliver(context stdctx.Context, to string, subject string, htmlBody string) error {

	message := buildMessage(mailer.from, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", mailer.host, mailer.port)
	auth := smtp.PlainAuth("", mailer.username, mailer.password, mailer.host)

	deliverCtx, cancel := stdctx.WithTimeout(context, constants.MailTimeout)
	defer cancel()

	errs := make(chan error, 1)
	go func() {
		errs <- smtp.SendMail(addr, auth, mailer.from, []string{to}, message)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("mailer: smtp delivery failed: %w", err)
		}
		mailer.logger.Info("email_sent", slog.String("to", to), slog.String("subject", subject))
		return nil
	case <-deliverCtx.Done():
		return fmt.Errorf("mailer: smtp delivery timed out: %w", deliverCtx.Err())
	}
}

// tokenizedLink appends userId and token query parameters to a frontend base URL.
func tokenizedLink(base string, userID string, token string) string {
	values := url.Values{}
	values.Set("userId", userID)
	values.Set("token", token)
	return base + "?" + values.Encode()
}

// buildMessage assembles a minimal RFC 5322 message with an HTML body.
func buildMessage(from string, to string, subject string, htmlBody string) []byte {
	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, "From: %s\r\n", from)
	fmt.Fprintf(&buffer, "To: %s\r\n", to)
	fmt.Fprintf(&buffer, "Subject: %s\r\n", subject)
	buffer.WriteString("MIME-Version: 1.0\r\n")
	buffer.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buffer.WriteString("\r\n")
	buffer.WriteString(htmlBody)
	return buffer.Bytes()
}
