package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTP) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

// Log writes messages to the log instead of sending them. Development only.
type Log struct{}

func (Log) Send(_ context.Context, m Message) error {
	log.Info().Str("to", m.To).Str("subject", m.Subject).Str("body", m.Body).Msg("mail not sent: no SMTP host configured")
	return nil
}
