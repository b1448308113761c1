// Package mailer delivers notifications as plain-text email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"sendit/internal/core/ports"
)

// SendFunc is smtp.SendMail bound to a context. Tests use it to capture
// messages.
type SendFunc func(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c Config) Validate() error {
	var errList []error
	if strings.TrimSpace(c.Host) == "" {
		errList = append(errList, errors.New("smtp host is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errList = append(errList, fmt.Errorf("smtp port %d is out of range", c.Port))
	}
	if _, err := mail.ParseAddress(c.From); err != nil {
		errList = append(errList, fmt.Errorf("smtp from address: %w", err))
	}
	return errors.Join(errList...)
}

type Option func(*Mailer)

// WithSendFunc replaces the SMTP client.
func WithSendFunc(send SendFunc) Option {
	return func(m *Mailer) {
		if send != nil {
			m.send = send
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Mailer) {
		if now != nil {
			m.now = now
		}
	}
}

// Mailer implements ports.Notifier.
type Mailer struct {
	cfg       Config
	templates Templates
	send      SendFunc
	now       func() time.Time
}

func NewMailer(cfg Config, templates Templates, opts ...Option) (*Mailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Mailer{
		cfg:       cfg,
		templates: templates,
		send:      sendMail,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Notify renders n and hands it to the SMTP server. The SMTP session is
// aborted when ctx ends and Notify returns ctx's error.
func (m *Mailer) Notify(ctx context.Context, n ports.Notification) error {
	parsed, err := mail.ParseAddress(n.RecipientEmail)
	if err != nil {
		return fmt.Errorf("recipient address: %w", err)
	}
	to := &mail.Address{Name: n.RecipientName, Address: parsed.Address}

	subject, body, err := m.templates.Render(n)
	if err != nil {
		return err
	}

	msg := m.compose(to, subject, body)
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err = m.send(ctx, addr, auth, m.fromAddress(), []string{to.Address}, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp send %s: %w", n.Kind, ctxErr)
		}
		return fmt.Errorf("smtp send %s: %w", n.Kind, err)
	}
	return nil
}

func (m *Mailer) fromAddress() string {
	from, err := mail.ParseAddress(m.cfg.From)
	if err != nil {
		return m.cfg.From
	}
	return from.Address
}

func (m *Mailer) compose(to *mail.Address, subject, body string) []byte {
	recipient := to.Address
	if to.Name != "" {
		recipient = to.String()
	}

	var b strings.Builder
	b.WriteString("From: " + m.cfg.From + "\r\n")
	b.WriteString("To: " + recipient + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + m.now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}
