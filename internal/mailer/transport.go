package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/smtp"
	"strings"
)

// Transport delivers composed messages
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// ErrNoRecipients is returned for messages without a To address
var ErrNoRecipients = errors.New("mailer: message has no recipients")

// SMTPTransport sends mails through an SMTP server
type SMTPTransport struct {
	addr string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPTransport creates a transport for host:port. Authentication is
// skipped when username is empty.
func NewSMTPTransport(host, port, username, password string) *SMTPTransport {
	t := &SMTPTransport{addr: host + ":" + port, send: smtp.SendMail}
	if username != "" {
		t.auth = smtp.PlainAuth("", username, password, host)
	}
	return t
}

// Send delivers msg
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	envelopeFrom := msg.Sender
	if envelopeFrom == "" {
		envelopeFrom = msg.From
	}
	if err := t.send(t.addr, t.auth, envelopeFrom, msg.To, Encode(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// Encode renders msg as an RFC 5322 message with an HTML body
func Encode(msg *Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	if msg.Sender != "" && msg.Sender != msg.From {
		b.WriteString("Sender: " + msg.Sender + "\r\n")
	}
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogTransport writes mails to the log instead of sending them
type LogTransport struct{}

// Send logs msg
func (LogTransport) Send(_ context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	log.Printf("mail to %s: %s\n%s", strings.Join(msg.To, ", "), msg.Subject, msg.HTMLBody)
	return nil
}
