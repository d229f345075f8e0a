// Package notifier renders notification e-mails and hands them to a sender.
package notifier

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Mail struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Mail) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender dials the relay for every message.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTP(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{from: cfg.From, dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)}
}

func (s *SMTPSender) Send(ctx context.Context, m Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

// ConsoleSender logs mail instead of sending it. Used when no SMTP host is configured.
type ConsoleSender struct {
	log *logrus.Entry
}

func NewConsole(log *logrus.Entry) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (c *ConsoleSender) Send(_ context.Context, m Mail) error {
	c.log.WithFields(logrus.Fields{"to": m.To, "subject": m.Subject, "bytes": len(m.HTML)}).Info("mail")
	return nil
}
