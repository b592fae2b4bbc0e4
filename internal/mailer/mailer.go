// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends the contact notification mail through Mailgun. The
// mail is best-effort: the stored submission is the durable record and a
// delivery failure never fails the request that triggered it.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/victorianmonkey/vmsite/internal/model"
)

const sendTimeout = 15 * time.Second

// Mailer delivers contact notifications. Tests substitute a recording fake.
type Mailer interface {
	// Enabled reports whether the provider is configured.
	Enabled() bool
	// SendContactNotification mails the submission to the configured
	// notification address.
	SendContactNotification(ctx context.Context, sub model.ContactSubmission) error
}

// Config holds the Mailgun settings.
type Config struct {
	APIKey   string
	Domain   string
	From     string
	FromName string
	To       string
}

// Mailgun is the production Mailer.
type Mailgun struct {
	cfg Config
	mg  *mailgun.MailgunImpl
}

// New creates a Mailgun mailer. With incomplete configuration the mailer is
// disabled and SendContactNotification reports an error.
func New(cfg Config) *Mailgun {
	m := &Mailgun{cfg: cfg}
	if cfg.APIKey != "" && cfg.Domain != "" {
		m.mg = mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	}
	return m
}

// Enabled implements Mailer.
func (m *Mailgun) Enabled() bool {
	return m.mg != nil && m.cfg.To != ""
}

// SendContactNotification implements Mailer.
func (m *Mailgun) SendContactNotification(ctx context.Context, sub model.ContactSubmission) error {
	if !m.Enabled() {
		return fmt.Errorf("mailgun configuration is incomplete")
	}

	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	subject := "Nuovo messaggio di contatto da " + sub.Name

	var b strings.Builder
	b.WriteString("Nuovo messaggio di contatto\n\n")
	fmt.Fprintf(&b, "Nome: %s\n", sub.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	if sub.Phone.Valid {
		fmt.Fprintf(&b, "Telefono: %s\n", sub.Phone.String)
	}
	if sub.Message.Valid {
		fmt.Fprintf(&b, "\nMessaggio:\n%s\n", sub.Message.String)
	}

	msg := m.mg.NewMessage(from, subject, b.String(), m.cfg.To)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending contact notification: %w", err)
	}
	return nil
}
