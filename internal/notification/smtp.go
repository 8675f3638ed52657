package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"
)

const (
	SecuritySTARTTLS = "starttls"
	SecuritySSL      = "ssl"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Security string
	Sender   string
	Password string
	// Timeout of zero disables the dial and I/O deadline.
	Timeout time.Duration
}

// SMTPTransport opens a fresh authenticated connection for every Send.
type SMTPTransport struct {
	cfg  SMTPConfig
	send func(d *mail.Dialer, msgs ...*mail.Message) error
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	return &SMTPTransport{
		cfg: cfg,
		send: func(d *mail.Dialer, msgs ...*mail.Message) error {
			return d.DialAndSend(msgs...)
		},
	}
}

func (t *SMTPTransport) Ready() error {
	if t.cfg.Sender == "" || t.cfg.Password == "" {
		return ErrNotConfigured
	}
	return nil
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := t.send(t.dialer(), t.message(msg)); err != nil {
		return fmt.Errorf("smtp send via %s:%d: %w", t.cfg.Host, t.cfg.Port, err)
	}
	return nil
}

func (t *SMTPTransport) message(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", t.cfg.Sender)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}

func (t *SMTPTransport) dialer() *mail.Dialer {
	d := mail.NewDialer(t.cfg.Host, t.cfg.Port, t.cfg.Sender, t.cfg.Password)
	d.Timeout = t.cfg.Timeout
	d.TLSConfig = &tls.Config{ServerName: t.cfg.Host}

	if t.cfg.Security == SecuritySSL || t.cfg.Port == 465 {
		d.SSL = true
	} else {
		d.SSL = false
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return d
}
