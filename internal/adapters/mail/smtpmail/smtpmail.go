// Package smtpmail delivers plain text mail through an SMTP relay
// STARTTLS is used on the submission ports when the server offers it
package smtpmail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/logger"
)

// DefaultFrom is used when no sender address is configured
const DefaultFrom = "no-reply@leadscore.local"

// Config selects the relay and the sender
type Config struct {
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	Timeout time.Duration
}

// Mailer sends one message per connection, safe for concurrent use
type Mailer struct {
	cfg  Config
	addr string
	tls  *tls.Config
	now  func() time.Time
	log  logger.Logger
}

// New validates cfg and fills defaults
func New(cfg Config) (*Mailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtpmail: no host configured")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtpmail: invalid port %d", cfg.Port)
	}
	if cfg.From == "" {
		cfg.From = DefaultFrom
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Mailer{
		cfg:  cfg,
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		tls:  &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
		now:  time.Now,
		log:  *logger.Named("smtpmail"),
	}, nil
}

// Send delivers body to a single recipient
// the connection honours the ctx deadline, or Timeout when ctx has none
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return perr.InvalidArgf("smtpmail: header values must be single line")
	}

	d := net.Dialer{Timeout: m.cfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "smtp dial %s", m.addr)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = m.now().Add(m.cfg.Timeout)
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "smtp greeting")
	}
	defer c.Close()

	if m.cfg.Port == 587 || m.cfg.Port == 25 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(m.tls); err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnavailable, "smtp starttls")
			}
		}
	}
	if m.cfg.User != "" && m.cfg.Pass != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnauthorized, "smtp auth")
		}
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "smtp mail from")
	}
	if err := c.Rcpt(to); err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "smtp rcpt to")
	}
	w, err := c.Data()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "smtp data")
	}
	if _, err := w.Write(m.compose(to, subject, body)); err != nil {
		_ = w.Close()
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "smtp write")
	}
	if err := w.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "smtp data end")
	}
	if err := c.Quit(); err != nil {
		m.log.Debug().Err(err).Msg("smtp quit")
	}
	m.log.Debug().Str("to", to).Str("relay", m.addr).Msg("mail sent")
	return nil
}

// compose renders headers and a CRLF normalised body
func (m *Mailer) compose(to, subject, body string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\r\n")
	}
	return b.Bytes()
}
