package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
)

var (
	// ErrNoRecipients is returned when To is empty.
	ErrNoRecipients = errors.New("mail: no recipients provided")
	// ErrNoSender is returned when neither the message nor the config has a sender.
	ErrNoSender = errors.New("mail: no sender provided")
)

// DefaultFrom is the sender used when the config leaves From empty.
const DefaultFrom = "Ration Shop <no-reply@rationshop.local>"

// Message is a plain-text email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Mail sends messages.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig configures SMTP delivery. An empty Host selects the log sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// New returns an SMTP sender, or a Log sender when cfg.Host is empty. An empty
// cfg.From falls back to DefaultFrom.
func New(cfg SMTPConfig) Mail {
	if cfg.From == "" {
		cfg.From = DefaultFrom
	}

	if cfg.Host == "" {
		return &Log{from: cfg.From}
	}

	port := cfg.Port
	if port == 0 {
		port = 25
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTP{
		addr: fmt.Sprintf("%s:%d", cfg.Host, port),
		from: cfg.From,
		auth: auth,
		send: smtp.SendMail,
	}
}

// SMTP delivers through net/smtp.
type SMTP struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, err := sender(msg, s.from)
	if err != nil {
		return err
	}

	return s.send(s.addr, s.auth, from, msg.To, compose(from, msg))
}

func (s *SMTP) Close() error {
	return nil
}

// Log writes the message to slog at info level instead of sending it. Kiosk
// demos read one-time codes from the log this way.
type Log struct {
	from string
}

// Send only needs recipients; a missing sender is logged as empty.
func (l *Log) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	from := msg.From
	if from == "" {
		from = l.from
	}

	slog.InfoContext(ctx, "mail not sent (no smtp host)",
		slog.String("from", from),
		slog.Any("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)

	return nil
}

func (l *Log) Close() error {
	return nil
}

func sender(msg Message, fallback string) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}

	from := msg.From
	if from == "" {
		from = fallback
	}
	if from == "" {
		return "", ErrNoSender
	}

	return from, nil
}

func compose(from string, msg Message) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", msg.Subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	sb.WriteString(msg.Body)

	return []byte(sb.String())
}
